package callsession

import (
	"context"
	"database/sql"
	"testing"
	"time"

	domain "leadflow-service/internal/domain/callsession"
	"leadflow-service/internal/domain/lead"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/repository/postgres"
	"leadflow-service/internal/service/report"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*CallSessionService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := zap.NewNop()
	leadRepo := postgres.NewLeadRepository(mock)
	sessionRepo := postgres.NewCallSessionRepository(mock)
	reportService := report.NewReportService(
		postgres.NewWorkReportRepository(mock),
		leadRepo,
		postgres.NewAgentRepository(mock),
		nil, nil, logger,
	)
	return NewCallSessionService(sessionRepo, leadRepo, reportService, logger), mock
}

func leadRow(id, agentID string, verified bool, assignedAt time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "email", "phone", "course", "place", "assigned_to", "assigned_at",
		"call_status", "call_duration", "interested", "plan_type", "completed_at",
		"timer_duration_seconds", "verified", "created_at", "updated_at",
	}).AddRow(id, "Asha", "asha@example.com", "9876543210", "Physics", "Kochi",
		agentID, assignedAt, nil, nil, nil, nil, nil, nil, verified, assignedAt, assignedAt)
}

func sessionRow(id, leadID, agentID string, startedAt time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "lead_id", "agent_id", "started_at", "stopped_at", "duration_seconds", "status", "created_at",
	}).AddRow(id, leadID, agentID, startedAt, nil, nil, domain.StatusStarted, startedAt)
}

func agentRow(id string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "username", "email", "phone", "role", "verified",
		"is_assignment_complete", "assignment_completed_at", "created_at", "updated_at",
	}).AddRow(id, "agent1", "agent1@example.com", "0712345678", "User", true, false, nil, now, now)
}

// expectRecompute covers the post-save report refresh: the mocked agent does
// not exist, which makes both refresh steps no-ops.
func expectRecompute(mock pgxmock.PgxPoolIface, agentID string) {
	mock.ExpectQuery("FROM agents WHERE id").WithArgs(agentID).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("FROM agents WHERE id").WithArgs(agentID).WillReturnError(pgx.ErrNoRows)
}

func TestStart_NewSession(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("FROM leads WHERE id").WithArgs("L1").
		WillReturnRows(leadRow("L1", "AG1", false, time.Now()))
	mock.ExpectQuery("stopped_at IS NULL").WithArgs("L1", "AG1").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO call_sessions").
		WithArgs(pgxmock.AnyArg(), "L1", "AG1", pgxmock.AnyArg(), domain.StatusStarted).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	result, err := svc.Start(context.Background(), "AG1", domain.StartRequest{LeadID: "L1"})
	require.NoError(t, err)
	assert.False(t, result.AlreadyActive)
	assert.NotEmpty(t, result.SessionID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStart_IdempotentWhileRunning(t *testing.T) {
	svc, mock := newService(t)
	startedAt := time.Now().Add(-time.Minute)

	mock.ExpectQuery("FROM leads WHERE id").WithArgs("L1").
		WillReturnRows(leadRow("L1", "AG1", false, time.Now()))
	mock.ExpectQuery("stopped_at IS NULL").WithArgs("L1", "AG1").
		WillReturnRows(sessionRow("S1", "L1", "AG1", startedAt))

	result, err := svc.Start(context.Background(), "AG1", domain.StartRequest{LeadID: "L1"})
	require.NoError(t, err)
	assert.True(t, result.AlreadyActive)
	assert.Equal(t, "S1", result.SessionID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStart_UnknownLead(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("FROM leads WHERE id").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err := svc.Start(context.Background(), "AG1", domain.StartRequest{LeadID: "missing"})
	assert.True(t, xerrors.Is(err, xerrors.ErrNotFound))
}

func TestStop_RecordsDuration(t *testing.T) {
	svc, mock := newService(t)
	startedAt := time.Now().Add(-125 * time.Second)

	mock.ExpectQuery("FROM call_sessions WHERE id").WithArgs("S1").
		WillReturnRows(sessionRow("S1", "L1", "AG1", startedAt))
	mock.ExpectExec("UPDATE call_sessions").
		WithArgs(pgxmock.AnyArg(), int64(125), domain.StatusStopped, "S1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("FROM leads WHERE id").WithArgs("L1").
		WillReturnRows(leadRow("L1", "AG1", false, time.Now()))
	mock.ExpectExec("UPDATE leads").
		WithArgs(sql.NullString{}, sql.NullInt32{}, sql.NullString{}, sql.NullString{},
			pgxmock.AnyArg(), sql.NullInt64{Int64: 125, Valid: true}, false, pgxmock.AnyArg(), "L1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectRecompute(mock, "AG1")

	result, err := svc.Stop(context.Background(), "AG1", "S1", domain.StopRequest{})
	require.NoError(t, err)
	assert.False(t, result.AlreadyStopped)
	assert.Equal(t, int64(125), result.DurationSeconds)
	assert.Equal(t, 2.08, result.DurationMinutes)
	require.NotNil(t, result.Lead)
	assert.Equal(t, int64(125), result.Lead.CallInfo.TimerDurationSeconds.Int64)
	// A stop marks the attempt completed even without any outcome fields.
	require.True(t, result.Lead.CallInfo.CompletedAt.Valid)
	assert.Equal(t, result.StoppedAt, result.Lead.CallInfo.CompletedAt.Time)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStop_MergesSubmittedOutcome(t *testing.T) {
	svc, mock := newService(t)
	startedAt := time.Now().Add(-60 * time.Second)
	accepted := lead.CallAccepted

	mock.ExpectQuery("FROM call_sessions WHERE id").WithArgs("S1").
		WillReturnRows(sessionRow("S1", "L1", "AG1", startedAt))
	mock.ExpectExec("UPDATE call_sessions").
		WithArgs(pgxmock.AnyArg(), int64(60), domain.StatusStopped, "S1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("FROM leads WHERE id").WithArgs("L1").
		WillReturnRows(leadRow("L1", "AG1", false, time.Now()))
	mock.ExpectExec("UPDATE leads").
		WithArgs(sql.NullString{String: lead.CallAccepted, Valid: true}, sql.NullInt32{},
			sql.NullString{}, sql.NullString{},
			pgxmock.AnyArg(), sql.NullInt64{Int64: 60, Valid: true}, false, pgxmock.AnyArg(), "L1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectRecompute(mock, "AG1")

	result, err := svc.Stop(context.Background(), "AG1", "S1", domain.StopRequest{
		Outcome: &lead.OutcomeUpdate{CallStatus: &accepted},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Lead)
	assert.Equal(t, lead.CallAccepted, result.Lead.CallInfo.CallStatus.String)
	assert.True(t, result.Lead.CallInfo.CompletedAt.Valid)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The report bucket refreshed after a stop belongs to the week the lead was
// assigned in, not the week the call happened in.
func TestStop_RecomputesAssignmentWeekBucket(t *testing.T) {
	svc, mock := newService(t)
	startedAt := time.Now().Add(-300 * time.Second)
	assignedAt := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)
	weekStart, weekEnd := report.WeekRange(assignedAt)

	mock.ExpectQuery("FROM call_sessions WHERE id").WithArgs("S1").
		WillReturnRows(sessionRow("S1", "L1", "AG1", startedAt))
	mock.ExpectExec("UPDATE call_sessions").
		WithArgs(pgxmock.AnyArg(), int64(300), domain.StatusStopped, "S1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("FROM leads WHERE id").WithArgs("L1").
		WillReturnRows(leadRow("L1", "AG1", false, assignedAt))
	mock.ExpectExec("UPDATE leads").
		WithArgs(sql.NullString{}, sql.NullInt32{}, sql.NullString{}, sql.NullString{},
			pgxmock.AnyArg(), sql.NullInt64{Int64: 300, Valid: true}, false, pgxmock.AnyArg(), "L1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectQuery("FROM agents WHERE id").WithArgs("AG1").WillReturnRows(agentRow("AG1"))
	mock.ExpectQuery("FROM leads").WithArgs("AG1", weekStart, weekEnd).
		WillReturnRows(pgxmock.NewRows([]string{"assigned", "completed", "duration"}).
			AddRow(int64(1), int64(1), int64(600)))
	mock.ExpectQuery("plan_type").WithArgs("AG1", weekStart, weekEnd).
		WillReturnRows(pgxmock.NewRows([]string{"starter", "gold", "master", "total"}).
			AddRow(int64(0), int64(1), int64(0), int64(1)))
	mock.ExpectQuery("to_char").WithArgs("AG1", weekStart, weekEnd).
		WillReturnRows(pgxmock.NewRows([]string{"assigned_dates", "completed_dates"}).
			AddRow(pq.StringArray{"2025-11-03"}, pq.StringArray{"2025-11-03"}))
	mock.ExpectQuery("FROM call_sessions").WithArgs("AG1", weekStart, weekEnd).
		WillReturnRows(pgxmock.NewRows([]string{"total"}).AddRow(int64(300)))
	mock.ExpectExec("INSERT INTO work_reports").
		WithArgs(pgxmock.AnyArg(), "AG1", "agent1", pgxmock.AnyArg(),
			report.DayString(assignedAt), report.WeekString(assignedAt), report.MonthString(assignedAt),
			int64(1), int64(1), int64(600), int64(300),
			pq.StringArray{"2025-11-03"}, pq.StringArray{"2025-11-03"}, int64(1), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mock.ExpectQuery("FROM agents WHERE id").WithArgs("AG1").WillReturnRows(agentRow("AG1"))
	mock.ExpectQuery("FROM leads").WithArgs("AG1").
		WillReturnRows(pgxmock.NewRows([]string{"total", "completed"}).AddRow(int64(1), int64(1)))
	mock.ExpectExec("UPDATE agents").
		WithArgs(true, pgxmock.AnyArg(), pgxmock.AnyArg(), "AG1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	_, err := svc.Stop(context.Background(), "AG1", "S1", domain.StopRequest{})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStop_ForbiddenForOtherAgent(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("FROM call_sessions WHERE id").WithArgs("S1").
		WillReturnRows(sessionRow("S1", "L1", "AG1", time.Now()))

	_, err := svc.Stop(context.Background(), "AG2", "S1", domain.StopRequest{})
	assert.True(t, xerrors.Is(err, xerrors.ErrForbidden))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStop_AlreadyStoppedReplaysResult(t *testing.T) {
	svc, mock := newService(t)
	startedAt := time.Now().Add(-time.Hour)
	stoppedAt := startedAt.Add(60 * time.Second)

	rows := pgxmock.NewRows([]string{
		"id", "lead_id", "agent_id", "started_at", "stopped_at", "duration_seconds", "status", "created_at",
	}).AddRow("S1", "L1", "AG1", startedAt, stoppedAt, int64(60), domain.StatusStopped, startedAt)
	mock.ExpectQuery("FROM call_sessions WHERE id").WithArgs("S1").WillReturnRows(rows)

	result, err := svc.Stop(context.Background(), "AG1", "S1", domain.StopRequest{})
	require.NoError(t, err)
	assert.True(t, result.AlreadyStopped)
	assert.Equal(t, int64(60), result.DurationSeconds)
	assert.Equal(t, 1.0, result.DurationMinutes)
	assert.Nil(t, result.Lead)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStop_VerifiedLeadSkipsOutcomeWrite(t *testing.T) {
	svc, mock := newService(t)
	startedAt := time.Now().Add(-30 * time.Second)

	mock.ExpectQuery("FROM call_sessions WHERE id").WithArgs("S1").
		WillReturnRows(sessionRow("S1", "L1", "AG1", startedAt))
	mock.ExpectExec("UPDATE call_sessions").
		WithArgs(pgxmock.AnyArg(), int64(30), domain.StatusStopped, "S1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("FROM leads WHERE id").WithArgs("L1").
		WillReturnRows(leadRow("L1", "AG1", true, time.Now()))

	result, err := svc.Stop(context.Background(), "AG1", "S1", domain.StopRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(30), result.DurationSeconds)
	// The session closed, but no lead write happened.
	require.NoError(t, mock.ExpectationsWereMet())
}
