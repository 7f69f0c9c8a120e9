package assignment

import (
	"context"
	"testing"
	"time"

	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/repository/postgres"
	"leadflow-service/internal/service/report"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*AssignmentService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := zap.NewNop()
	leadRepo := postgres.NewLeadRepository(mock)
	reportService := report.NewReportService(
		postgres.NewWorkReportRepository(mock),
		leadRepo,
		postgres.NewAgentRepository(mock),
		nil, nil, logger,
	)
	return NewAssignmentService(leadRepo, postgres.NewAssignmentRepository(mock), reportService, logger), mock
}

func leadRow(id string, assignedTo interface{}) *pgxmock.Rows {
	now := time.Now()
	var assignedAt interface{}
	if assignedTo != nil {
		assignedAt = now
	}
	return pgxmock.NewRows([]string{
		"id", "name", "email", "phone", "course", "place", "assigned_to", "assigned_at",
		"call_status", "call_duration", "interested", "plan_type", "completed_at",
		"timer_duration_seconds", "verified", "created_at", "updated_at",
	}).AddRow(id, "Ravi", "ravi@example.com", "9000000001", "Maths", "Pune",
		assignedTo, assignedAt, nil, nil, nil, nil, nil, nil, false, now, now)
}

func expectRecompute(mock pgxmock.PgxPoolIface, agentID string) {
	mock.ExpectQuery("FROM agents WHERE id").WithArgs(agentID).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("FROM agents WHERE id").WithArgs(agentID).WillReturnError(pgx.ErrNoRows)
}

func TestAssign_SkipsUnknownLeads(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("FROM leads WHERE id").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery("FROM leads WHERE id").WithArgs("L2").WillReturnRows(leadRow("L2", nil))
	mock.ExpectExec("INSERT INTO assignments").
		WithArgs(pgxmock.AnyArg(), "L2", "AG1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE leads SET assigned_to").
		WithArgs("AG1", pgxmock.AnyArg(), "L2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectRecompute(mock, "AG1")

	result, err := svc.Assign(context.Background(), []string{"missing", "L2"}, "AG1")
	require.NoError(t, err)
	assert.Equal(t, []string{"L2"}, result.Assigned)
	assert.Equal(t, []string{"missing"}, result.Skipped)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssign_ClosesPreviousOwnership(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("FROM leads WHERE id").WithArgs("L1").WillReturnRows(leadRow("L1", "AG0"))
	mock.ExpectExec("UPDATE assignments SET unassigned_at").
		WithArgs(pgxmock.AnyArg(), "L1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO assignments").
		WithArgs(pgxmock.AnyArg(), "L1", "AG1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE leads SET assigned_to").
		WithArgs("AG1", pgxmock.AnyArg(), "L1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectRecompute(mock, "AG1")

	result, err := svc.Assign(context.Background(), []string{"L1"}, "AG1")
	require.NoError(t, err)
	assert.Equal(t, []string{"L1"}, result.Assigned)
	assert.Empty(t, result.Skipped)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssign_AbortsBatchOnWriteError(t *testing.T) {
	svc, mock := newService(t)

	// First lead commits fully.
	mock.ExpectQuery("FROM leads WHERE id").WithArgs("L1").WillReturnRows(leadRow("L1", nil))
	mock.ExpectExec("INSERT INTO assignments").
		WithArgs(pgxmock.AnyArg(), "L1", "AG1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE leads SET assigned_to").
		WithArgs("AG1", pgxmock.AnyArg(), "L1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectRecompute(mock, "AG1")

	// Second lead fails mid-write; the batch stops there.
	mock.ExpectQuery("FROM leads WHERE id").WithArgs("L2").WillReturnRows(leadRow("L2", nil))
	mock.ExpectExec("INSERT INTO assignments").
		WithArgs(pgxmock.AnyArg(), "L2", "AG1", pgxmock.AnyArg()).
		WillReturnError(assert.AnError)

	result, err := svc.Assign(context.Background(), []string{"L1", "L2"}, "AG1")
	require.Error(t, err)
	assert.Equal(t, []string{"L1"}, result.Assigned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssign_RequiresInput(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Assign(context.Background(), nil, "AG1")
	assert.True(t, xerrors.Is(err, xerrors.ErrInvalidInput))

	_, err = svc.Assign(context.Background(), []string{"L1"}, "")
	assert.True(t, xerrors.Is(err, xerrors.ErrInvalidInput))
}
