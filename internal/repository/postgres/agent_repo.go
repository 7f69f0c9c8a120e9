// internal/repository/postgres/agent_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadflow-service/internal/domain/agent"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

const agentColumns = `id, username, email, phone, role, verified,
       is_assignment_complete, assignment_completed_at, created_at, updated_at`

type AgentRepository struct {
	db DBTX
}

func NewAgentRepository(db DBTX) *AgentRepository {
	return &AgentRepository{db: db}
}

func scanAgent(row pgx.Row) (*agent.Agent, error) {
	var a agent.Agent
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.Phone, &a.Role, &a.Verified,
		&a.IsAssignmentComplete, &a.AssignmentCompletedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByID retrieves an agent by ID.
func (r *AgentRepository) FindByID(ctx context.Context, id string) (*agent.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE id = $1`, agentColumns)

	a, err := scanAgent(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find agent: %w", err)
	}
	return a, nil
}

// ListVerified returns verified call agents for the assignment UI.
func (r *AgentRepository) ListVerified(ctx context.Context) ([]agent.Agent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM agents
		WHERE role = $1 AND verified = TRUE
		ORDER BY username ASC, email ASC
	`, agentColumns)

	rows, err := r.db.Query(ctx, query, agent.RoleAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()
	return collectAgents(rows)
}

// Overview returns directory totals plus the newest unverified agents.
func (r *AgentRepository) Overview(ctx context.Context) (*agent.Overview, error) {
	countQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE verified),
		       COUNT(*) FILTER (WHERE NOT verified)
		FROM agents
		WHERE role = $1
	`
	var o agent.Overview
	if err := r.db.QueryRow(ctx, countQuery, agent.RoleAgent).
		Scan(&o.TotalAgents, &o.VerifiedAgents, &o.PendingAgents); err != nil {
		return nil, fmt.Errorf("failed to count agents: %w", err)
	}

	newQuery := fmt.Sprintf(`
		SELECT %s FROM agents
		WHERE role = $1 AND verified = FALSE
		ORDER BY created_at DESC
		LIMIT 10
	`, agentColumns)

	rows, err := r.db.Query(ctx, newQuery, agent.RoleAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to list new agents: %w", err)
	}
	defer rows.Close()

	newAgents, err := collectAgents(rows)
	if err != nil {
		return nil, err
	}
	o.NewAgents = newAgents
	return &o, nil
}

// SetCompletion records or clears the assignment-complete flag.
func (r *AgentRepository) SetCompletion(ctx context.Context, agentID string, complete bool, at *time.Time) error {
	query := `
		UPDATE agents
		SET is_assignment_complete = $1, assignment_completed_at = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.Exec(ctx, query, complete, at, time.Now(), agentID)
	if err != nil {
		return fmt.Errorf("failed to update completion flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func collectAgents(rows pgx.Rows) ([]agent.Agent, error) {
	agents := []agent.Agent{}
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate agents: %w", err)
	}
	return agents, nil
}
