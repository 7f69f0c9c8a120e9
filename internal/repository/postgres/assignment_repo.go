// internal/repository/postgres/assignment_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"leadflow-service/internal/domain/assignment"
)

type AssignmentRepository struct {
	db DBTX
}

func NewAssignmentRepository(db DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// CloseActive ends the lead's active ownership span, if any. Returns how many
// records were closed (0 when the lead was unassigned).
func (r *AssignmentRepository) CloseActive(ctx context.Context, leadID string, at time.Time) (int64, error) {
	query := `UPDATE assignments SET unassigned_at = $1 WHERE lead_id = $2 AND unassigned_at IS NULL`

	result, err := r.db.Exec(ctx, query, at, leadID)
	if err != nil {
		return 0, fmt.Errorf("failed to close active assignment: %w", err)
	}
	return result.RowsAffected(), nil
}

// Create appends a new ownership record for the lead.
func (r *AssignmentRepository) Create(ctx context.Context, rec *assignment.Record) error {
	query := `
		INSERT INTO assignments (id, lead_id, agent_id, assigned_at, unassigned_at)
		VALUES ($1, $2, $3, $4, NULL)
	`
	if _, err := r.db.Exec(ctx, query, rec.ID, rec.LeadID, rec.AgentID, rec.AssignedAt); err != nil {
		return fmt.Errorf("failed to create assignment record: %w", err)
	}
	return nil
}

// HistoryByLead returns the lead's full ownership history, oldest first, with
// the owning agent's name joined in.
func (r *AssignmentRepository) HistoryByLead(ctx context.Context, leadID string) ([]assignment.Record, error) {
	query := `
		SELECT a.id, a.lead_id, a.agent_id, a.assigned_at, a.unassigned_at, ag.username
		FROM assignments a
		LEFT JOIN agents ag ON ag.id = a.agent_id
		WHERE a.lead_id = $1
		ORDER BY a.assigned_at ASC
	`
	rows, err := r.db.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment history: %w", err)
	}
	defer rows.Close()

	records := []assignment.Record{}
	for rows.Next() {
		var rec assignment.Record
		if err := rows.Scan(&rec.ID, &rec.LeadID, &rec.AgentID, &rec.AssignedAt, &rec.UnassignedAt, &rec.AgentName); err != nil {
			return nil, fmt.Errorf("failed to scan assignment record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignment history: %w", err)
	}
	return records, nil
}

// AgentStats aggregates active assignments per agent: how many leads each
// agent holds and when the most recent one landed.
func (r *AssignmentRepository) AgentStats(ctx context.Context) ([]assignment.AgentStats, error) {
	query := `
		SELECT l.assigned_to, ag.username, ag.email, COUNT(*), MAX(l.assigned_at)
		FROM leads l
		JOIN agents ag ON ag.id = l.assigned_to
		WHERE l.assigned_to IS NOT NULL
		GROUP BY l.assigned_to, ag.username, ag.email
		ORDER BY ag.username ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load agent stats: %w", err)
	}
	defer rows.Close()

	stats := []assignment.AgentStats{}
	for rows.Next() {
		var s assignment.AgentStats
		if err := rows.Scan(&s.AgentID, &s.Username, &s.Email, &s.AssignedCount, &s.LastAssignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan agent stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate agent stats: %w", err)
	}
	return stats, nil
}
