// internal/repository/postgres/call_session_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadflow-service/internal/domain/callsession"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, lead_id, agent_id, started_at, stopped_at, duration_seconds, status, created_at`

type CallSessionRepository struct {
	db DBTX
}

func NewCallSessionRepository(db DBTX) *CallSessionRepository {
	return &CallSessionRepository{db: db}
}

func scanSession(row pgx.Row) (*callsession.Session, error) {
	var s callsession.Session
	err := row.Scan(&s.ID, &s.LeadID, &s.AgentID, &s.StartedAt, &s.StoppedAt,
		&s.DurationSeconds, &s.Status, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindActive returns the open session for a (lead, agent) pair, or
// ErrNotFound when none is running.
func (r *CallSessionRepository) FindActive(ctx context.Context, leadID, agentID string) (*callsession.Session, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM call_sessions
		WHERE lead_id = $1 AND agent_id = $2 AND stopped_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1
	`, sessionColumns)

	s, err := scanSession(r.db.QueryRow(ctx, query, leadID, agentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active session: %w", err)
	}
	return s, nil
}

// FindByID retrieves a session by ID.
func (r *CallSessionRepository) FindByID(ctx context.Context, id string) (*callsession.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM call_sessions WHERE id = $1`, sessionColumns)

	s, err := scanSession(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return s, nil
}

// Create opens a new session.
func (r *CallSessionRepository) Create(ctx context.Context, s *callsession.Session) error {
	query := `
		INSERT INTO call_sessions (id, lead_id, agent_id, started_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, s.ID, s.LeadID, s.AgentID, s.StartedAt, s.Status).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Stop closes a session with its measured duration.
func (r *CallSessionRepository) Stop(ctx context.Context, id string, stoppedAt time.Time, durationSeconds int64) error {
	query := `
		UPDATE call_sessions
		SET stopped_at = $1, duration_seconds = $2, status = $3
		WHERE id = $4
	`
	result, err := r.db.Exec(ctx, query, stoppedAt, durationSeconds, callsession.StatusStopped, id)
	if err != nil {
		return fmt.Errorf("failed to stop session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
