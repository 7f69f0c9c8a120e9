// internal/repository/postgres/work_report_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadflow-service/internal/domain/workreport"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type WorkReportRepository struct {
	db DBTX
}

func NewWorkReportRepository(db DBTX) *WorkReportRepository {
	return &WorkReportRepository{db: db}
}

// LeadMetrics scans the lead store for one agent inside [start, end) and
// returns the counts the aggregator derives from leads.
func (r *WorkReportRepository) LeadMetrics(ctx context.Context, agentID string, start, end time.Time) (*workreport.Report, error) {
	rep := &workreport.Report{AgentID: agentID}

	countQuery := `
		SELECT COUNT(*) FILTER (WHERE assigned_at >= $2 AND assigned_at < $3),
		       COUNT(*) FILTER (WHERE completed_at IS NOT NULL AND completed_at >= $2 AND completed_at < $3),
		       COALESCE(SUM(call_duration * 60) FILTER (WHERE call_duration IS NOT NULL AND completed_at >= $2 AND completed_at < $3), 0)
		FROM leads
		WHERE assigned_to = $1
	`
	err := r.db.QueryRow(ctx, countQuery, agentID, start, end).
		Scan(&rep.AssignedCount, &rep.CompletedCount, &rep.TotalCallDurationSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to scan lead metrics: %w", err)
	}

	planQuery := `
		SELECT COUNT(*) FILTER (WHERE plan_type = 'Starter'),
		       COUNT(*) FILTER (WHERE plan_type = 'Gold'),
		       COUNT(*) FILTER (WHERE plan_type = 'Master'),
		       COUNT(*) FILTER (WHERE plan_type IN ('Starter', 'Gold', 'Master'))
		FROM leads
		WHERE assigned_to = $1 AND assigned_at >= $2 AND assigned_at < $3
	`
	err = r.db.QueryRow(ctx, planQuery, agentID, start, end).
		Scan(&rep.PlanCounts.Starter, &rep.PlanCounts.Gold, &rep.PlanCounts.Master, &rep.TotalPlans)
	if err != nil {
		return nil, fmt.Errorf("failed to scan plan metrics: %w", err)
	}

	dateQuery := `
		SELECT ARRAY(SELECT to_char(assigned_at, 'YYYY-MM-DD') FROM leads
		             WHERE assigned_to = $1 AND assigned_at >= $2 AND assigned_at < $3
		             ORDER BY assigned_at),
		       ARRAY(SELECT to_char(completed_at, 'YYYY-MM-DD') FROM leads
		             WHERE assigned_to = $1 AND completed_at >= $2 AND completed_at < $3
		             ORDER BY completed_at)
	`
	err = r.db.QueryRow(ctx, dateQuery, agentID, start, end).
		Scan(&rep.AssignedDates, &rep.CompletedDates)
	if err != nil {
		return nil, fmt.Errorf("failed to scan bucket dates: %w", err)
	}

	return rep, nil
}

// TimerSeconds sums the measured call-session durations the agent stopped
// inside [start, end).
func (r *WorkReportRepository) TimerSeconds(ctx context.Context, agentID string, start, end time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(duration_seconds), 0)
		FROM call_sessions
		WHERE agent_id = $1 AND stopped_at >= $2 AND stopped_at < $3 AND duration_seconds IS NOT NULL
	`
	var total int64
	if err := r.db.QueryRow(ctx, query, agentID, start, end).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum timer seconds: %w", err)
	}
	return total, nil
}

// Upsert writes the recomputed report row keyed by (agent, day, week, month).
// The key never changes; only the metrics are overwritten.
func (r *WorkReportRepository) Upsert(ctx context.Context, rep *workreport.Report) error {
	planJSON, err := json.Marshal(rep.PlanCounts)
	if err != nil {
		return fmt.Errorf("failed to marshal plan counts: %w", err)
	}

	query := `
		INSERT INTO work_reports (
			id, agent_id, username, phone, day, week, month,
			assigned_count, completed_count, total_call_duration_seconds, total_timer_seconds,
			assigned_dates, completed_dates, total_plans, plan_counts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (agent_id, day, week, month) DO UPDATE SET
			username = EXCLUDED.username,
			phone = EXCLUDED.phone,
			assigned_count = EXCLUDED.assigned_count,
			completed_count = EXCLUDED.completed_count,
			total_call_duration_seconds = EXCLUDED.total_call_duration_seconds,
			total_timer_seconds = EXCLUDED.total_timer_seconds,
			assigned_dates = EXCLUDED.assigned_dates,
			completed_dates = EXCLUDED.completed_dates,
			total_plans = EXCLUDED.total_plans,
			plan_counts = EXCLUDED.plan_counts
	`
	_, err = r.db.Exec(ctx, query,
		rep.ID, rep.AgentID, rep.Username, rep.Phone, rep.Day, rep.Week, rep.Month,
		rep.AssignedCount, rep.CompletedCount, rep.TotalCallDurationSeconds, rep.TotalTimerSeconds,
		rep.AssignedDates, rep.CompletedDates, rep.TotalPlans, planJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert work report: %w", err)
	}
	return nil
}

// FindByBucket loads the newest report row for the agent matching whichever
// bucket keys are set (day, week or month; empty strings are ignored).
func (r *WorkReportRepository) FindByBucket(ctx context.Context, agentID, day, week, month string) (*workreport.Report, error) {
	query := `
		SELECT id, agent_id, username, phone, day, week, month,
		       assigned_count, completed_count, total_call_duration_seconds, total_timer_seconds,
		       assigned_dates, completed_dates, total_plans, plan_counts, created_at
		FROM work_reports
		WHERE agent_id = $1
		  AND ($2 = '' OR day = $2)
		  AND ($3 = '' OR week = $3)
		  AND ($4 = '' OR month = $4)
		ORDER BY day DESC
		LIMIT 1
	`
	rep, err := scanReport(r.db.QueryRow(ctx, query, agentID, day, week, month))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find work report: %w", err)
	}
	return rep, nil
}

// ListByAgent returns all of an agent's report rows, newest bucket first.
func (r *WorkReportRepository) ListByAgent(ctx context.Context, agentID string) ([]workreport.Report, error) {
	query := `
		SELECT id, agent_id, username, phone, day, week, month,
		       assigned_count, completed_count, total_call_duration_seconds, total_timer_seconds,
		       assigned_dates, completed_dates, total_plans, plan_counts, created_at
		FROM work_reports
		WHERE agent_id = $1
		ORDER BY day DESC
	`
	rows, err := r.db.Query(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work reports: %w", err)
	}
	defer rows.Close()

	reports := []workreport.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work report: %w", err)
		}
		reports = append(reports, *rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate work reports: %w", err)
	}
	return reports, nil
}

func scanReport(row pgx.Row) (*workreport.Report, error) {
	var rep workreport.Report
	var planJSON []byte
	err := row.Scan(
		&rep.ID, &rep.AgentID, &rep.Username, &rep.Phone, &rep.Day, &rep.Week, &rep.Month,
		&rep.AssignedCount, &rep.CompletedCount, &rep.TotalCallDurationSeconds, &rep.TotalTimerSeconds,
		&rep.AssignedDates, &rep.CompletedDates, &rep.TotalPlans, &planJSON, &rep.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(planJSON) > 0 {
		if err := json.Unmarshal(planJSON, &rep.PlanCounts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan counts: %w", err)
		}
	}
	return &rep, nil
}
