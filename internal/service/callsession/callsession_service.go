// internal/service/callsession/callsession_service.go
package callsession

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"leadflow-service/internal/domain/callsession"
	"leadflow-service/internal/domain/lead"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/pkg/id"
	"leadflow-service/internal/repository/postgres"
	"leadflow-service/internal/service/report"

	"go.uber.org/zap"
)

// CallSessionService tracks wall-clock call timing. Start and stop are both
// idempotent: starting while a session is already running returns the running
// one, and stopping a stopped session replays the recorded result without
// touching the lead again.
type CallSessionService struct {
	sessionRepo   *postgres.CallSessionRepository
	leadRepo      *postgres.LeadRepository
	reportService *report.ReportService
	logger        *zap.Logger
}

func NewCallSessionService(
	sessionRepo *postgres.CallSessionRepository,
	leadRepo *postgres.LeadRepository,
	reportService *report.ReportService,
	logger *zap.Logger,
) *CallSessionService {
	return &CallSessionService{
		sessionRepo:   sessionRepo,
		leadRepo:      leadRepo,
		reportService: reportService,
		logger:        logger,
	}
}

// Start opens a timing session for the agent against a lead. If the agent
// already has an open session on that lead, it is returned as-is.
func (s *CallSessionService) Start(ctx context.Context, agentID string, req callsession.StartRequest) (*callsession.StartResult, error) {
	if _, err := s.leadRepo.FindByID(ctx, req.LeadID); err != nil {
		return nil, err
	}

	active, err := s.sessionRepo.FindActive(ctx, req.LeadID, agentID)
	if err == nil {
		return &callsession.StartResult{
			SessionID:     active.ID,
			StartedAt:     active.StartedAt,
			AlreadyActive: true,
		}, nil
	}
	if !xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	sess := &callsession.Session{
		ID:        id.New(),
		LeadID:    req.LeadID,
		AgentID:   agentID,
		StartedAt: time.Now(),
		Status:    callsession.StatusStarted,
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("call session started",
		zap.String("session_id", sess.ID),
		zap.String("lead_id", req.LeadID),
		zap.String("agent_id", agentID),
	)
	return &callsession.StartResult{SessionID: sess.ID, StartedAt: sess.StartedAt}, nil
}

// Stop closes the session, records the measured duration and folds the
// submitted outcome into the lead. Only the session owner may stop it. When
// the lead has already been verified the session still closes, but the lead
// is left untouched.
func (s *CallSessionService) Stop(ctx context.Context, agentID, sessionID string, req callsession.StopRequest) (*callsession.StopResult, error) {
	sess, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.AgentID != agentID {
		return nil, xerrors.Wrap(xerrors.ErrForbidden, "session belongs to another agent")
	}

	if sess.StoppedAt.Valid {
		return &callsession.StopResult{
			SessionID:       sess.ID,
			DurationSeconds: sess.DurationSeconds.Int64,
			DurationMinutes: minutes(sess.DurationSeconds.Int64),
			StoppedAt:       sess.StoppedAt.Time,
			AlreadyStopped:  true,
		}, nil
	}

	stoppedAt := time.Now()
	seconds := int64(math.Round(stoppedAt.Sub(sess.StartedAt).Seconds()))
	if seconds < 0 {
		seconds = 0
	}

	if err := s.sessionRepo.Stop(ctx, sess.ID, stoppedAt, seconds); err != nil {
		return nil, err
	}

	result := &callsession.StopResult{
		SessionID:       sess.ID,
		DurationSeconds: seconds,
		DurationMinutes: minutes(seconds),
		StoppedAt:       stoppedAt,
	}

	l, err := s.leadRepo.FindByID(ctx, sess.LeadID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			s.logger.Warn("stopped session for missing lead", zap.String("lead_id", sess.LeadID))
			return result, nil
		}
		return nil, err
	}

	if l.CallInfo.Verified {
		s.logger.Warn("lead already verified, skipping outcome write on stop",
			zap.String("lead_id", l.ID),
			zap.String("session_id", sess.ID),
		)
		result.Lead = l
		return result, nil
	}

	if req.Outcome != nil {
		lead.MergeOutcome(&l.CallInfo, *req.Outcome)
	}
	l.CallInfo.TimerDurationSeconds = sql.NullInt64{Int64: seconds, Valid: true}
	// A stop is a completed call attempt even when no outcome fields came in.
	l.CallInfo.CompletedAt = sql.NullTime{Time: stoppedAt, Valid: true}

	if err := s.leadRepo.UpdateCallInfo(ctx, l.ID, l.CallInfo); err != nil {
		return nil, fmt.Errorf("failed to save outcome on stop: %w", err)
	}
	result.Lead = l

	// Report buckets are keyed by when the lead was assigned, not by when the
	// call happened.
	if err := s.reportService.Recompute(ctx, sess.AgentID, reportRef(l)); err != nil {
		return nil, err
	}
	if err := s.reportService.RefreshCompletion(ctx, sess.AgentID); err != nil {
		return nil, err
	}

	s.logger.Info("call session stopped",
		zap.String("session_id", sess.ID),
		zap.String("lead_id", sess.LeadID),
		zap.Int64("duration_seconds", seconds),
	)
	return result, nil
}

// minutes converts measured seconds to minutes rounded to two decimals.
func minutes(seconds int64) float64 {
	return math.Round(float64(seconds)/60.0*100) / 100
}

// reportRef picks the timestamp that keys the lead's report bucket: the
// current assignment time, or creation time for an unassigned lead.
func reportRef(l *lead.Lead) time.Time {
	if l.AssignedAt.Valid {
		return l.AssignedAt.Time
	}
	return l.CreatedAt
}
