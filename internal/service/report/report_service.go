// internal/service/report/report_service.go
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leadflow-service/internal/domain/workreport"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/pkg/id"
	"leadflow-service/internal/repository/postgres"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheTTL = 10 * time.Minute

// CompletionNotifier receives an event when an agent finishes every assigned
// lead. The websocket hub implements it.
type CompletionNotifier interface {
	NotifyCompletion(agentID, username string, completedAt time.Time)
}

// ReportService owns the derived per-(agent, bucket) rollups. Every metric is
// fully recomputed from the lead store and session tracker on each trigger;
// nothing is accumulated incrementally, so repeated saves cannot double-count.
type ReportService struct {
	reportRepo *postgres.WorkReportRepository
	leadRepo   *postgres.LeadRepository
	agentRepo  *postgres.AgentRepository
	cache      *redis.Client
	notifier   CompletionNotifier
	logger     *zap.Logger
}

func NewReportService(
	reportRepo *postgres.WorkReportRepository,
	leadRepo *postgres.LeadRepository,
	agentRepo *postgres.AgentRepository,
	cache *redis.Client,
	notifier CompletionNotifier,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		leadRepo:   leadRepo,
		agentRepo:  agentRepo,
		cache:      cache,
		notifier:   notifier,
		logger:     logger,
	}
}

// Recompute rebuilds the agent's report row for the week bucket containing
// ref. Callers invoke it explicitly after every lead-mutating write; an
// unknown agent id is a no-op rather than an error so a stale reference
// cannot fail the triggering operation.
func (s *ReportService) Recompute(ctx context.Context, agentID string, ref time.Time) error {
	ag, err := s.agentRepo.FindByID(ctx, agentID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			s.logger.Warn("work report recompute for unknown agent", zap.String("agent_id", agentID))
			return nil
		}
		return fmt.Errorf("failed to load agent for recompute: %w", err)
	}

	start, end := WeekRange(ref)

	rep, err := s.reportRepo.LeadMetrics(ctx, agentID, start, end)
	if err != nil {
		return fmt.Errorf("failed to compute lead metrics: %w", err)
	}

	timer, err := s.reportRepo.TimerSeconds(ctx, agentID, start, end)
	if err != nil {
		return fmt.Errorf("failed to compute timer seconds: %w", err)
	}

	rep.ID = id.New()
	rep.Username = ag.Username
	rep.Phone.String, rep.Phone.Valid = ag.Phone, ag.Phone != ""
	rep.Day = DayString(ref)
	rep.Week = WeekString(ref)
	rep.Month = MonthString(ref)
	rep.TotalTimerSeconds = timer

	if err := s.reportRepo.Upsert(ctx, rep); err != nil {
		return err
	}

	s.invalidate(ctx, agentID, rep.Day)

	s.logger.Info("work report recomputed",
		zap.String("agent_id", agentID),
		zap.String("day", rep.Day),
		zap.Int64("assigned", rep.AssignedCount),
		zap.Int64("completed", rep.CompletedCount),
	)
	return nil
}

// RefreshCompletion re-evaluates the agent's assignment-complete flag: set
// with a timestamp when every assigned lead has a completed outcome, cleared
// otherwise. Invoked explicitly after every lead-mutating write.
func (s *ReportService) RefreshCompletion(ctx context.Context, agentID string) error {
	ag, err := s.agentRepo.FindByID(ctx, agentID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load agent for completion check: %w", err)
	}

	total, completed, err := s.leadRepo.CompletionCounts(ctx, agentID)
	if err != nil {
		return err
	}

	if total > 0 && total == completed {
		now := time.Now()
		if err := s.agentRepo.SetCompletion(ctx, agentID, true, &now); err != nil {
			return err
		}
		if !ag.IsAssignmentComplete {
			s.logger.Info("agent completed all assigned leads",
				zap.String("agent_id", agentID),
				zap.Int64("count", total),
			)
			if s.notifier != nil {
				s.notifier.NotifyCompletion(agentID, ag.Username, now)
			}
		}
		return nil
	}

	return s.agentRepo.SetCompletion(ctx, agentID, false, nil)
}

// GetReport returns the agent's rollup for the requested bucket. Any of
// day/week/month may be given; day lookups are served from the redis cache
// when possible.
func (s *ReportService) GetReport(ctx context.Context, agentID, day, week, month string) (*workreport.Report, error) {
	if day == "" && week == "" && month == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "a day, week or month bucket is required")
	}

	useCache := s.cache != nil && day != ""
	key := cacheKey(agentID, day)

	if useCache {
		if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
			var rep workreport.Report
			if err := json.Unmarshal([]byte(raw), &rep); err == nil {
				return &rep, nil
			}
		}
	}

	rep, err := s.reportRepo.FindByBucket(ctx, agentID, day, week, month)
	if err != nil {
		return nil, err
	}

	if useCache {
		if raw, err := json.Marshal(rep); err == nil {
			s.cache.Set(ctx, key, raw, cacheTTL)
		}
	}
	return rep, nil
}

// ListReports returns every bucket row recorded for the agent.
func (s *ReportService) ListReports(ctx context.Context, agentID string) ([]workreport.Report, error) {
	return s.reportRepo.ListByAgent(ctx, agentID)
}

func (s *ReportService) invalidate(ctx context.Context, agentID, day string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(agentID, day)).Err(); err != nil {
		s.logger.Warn("failed to invalidate work report cache", zap.Error(err))
	}
}

func cacheKey(agentID, day string) string {
	return fmt.Sprintf("workreport:%s:%s", agentID, day)
}
