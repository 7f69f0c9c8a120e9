package callsession

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "leadflow-service/internal/domain/callsession"
	"leadflow-service/internal/repository/postgres"
	service "leadflow-service/internal/service/callsession"
	"leadflow-service/internal/service/report"

	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// The outcome payload is optional on stop, so a request without a body must
// not fail JSON binding.
func TestStop_AllowsEmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	logger := zap.NewNop()
	leadRepo := postgres.NewLeadRepository(mock)
	svc := service.NewCallSessionService(
		postgres.NewCallSessionRepository(mock),
		leadRepo,
		report.NewReportService(
			postgres.NewWorkReportRepository(mock),
			leadRepo,
			postgres.NewAgentRepository(mock),
			nil, nil, logger,
		),
		logger,
	)
	h := NewCallSessionHandler(svc)

	startedAt := time.Now().Add(-time.Hour)
	stoppedAt := startedAt.Add(90 * time.Second)
	rows := pgxmock.NewRows([]string{
		"id", "lead_id", "agent_id", "started_at", "stopped_at", "duration_seconds", "status", "created_at",
	}).AddRow("S1", "L1", "AG1", startedAt, stoppedAt, int64(90), domain.StatusStopped, startedAt)
	mock.ExpectQuery("FROM call_sessions WHERE id").WithArgs("S1").WillReturnRows(rows)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/call-sessions/S1/stop", nil)
	c.Params = gin.Params{{Key: "id", Value: "S1"}}
	c.Set("agent_id", "AG1")

	h.Stop(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
