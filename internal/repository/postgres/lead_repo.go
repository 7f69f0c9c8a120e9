// internal/repository/postgres/lead_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadflow-service/internal/domain/lead"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

const leadColumns = `id, name, email, phone, course, place, assigned_to, assigned_at,
       call_status, call_duration, interested, plan_type, completed_at,
       timer_duration_seconds, verified, created_at, updated_at`

type LeadRepository struct {
	db DBTX
}

func NewLeadRepository(db DBTX) *LeadRepository {
	return &LeadRepository{db: db}
}

func scanLead(row pgx.Row) (*lead.Lead, error) {
	var l lead.Lead
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Course, &l.Place,
		&l.AssignedTo, &l.AssignedAt,
		&l.CallInfo.CallStatus, &l.CallInfo.CallDuration, &l.CallInfo.Interested,
		&l.CallInfo.PlanType, &l.CallInfo.CompletedAt,
		&l.CallInfo.TimerDurationSeconds, &l.CallInfo.Verified,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts a new lead. Duplicate email/phone surfaces as ErrConflict.
func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, phone, course, place)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, l.ID, l.Name, l.Email, l.Phone, l.Course, l.Place).
		Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return xerrors.ErrConflict
		}
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// FindByID retrieves a lead by ID.
func (r *LeadRepository) FindByID(ctx context.Context, id string) (*lead.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1`, leadColumns)

	l, err := scanLead(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find lead: %w", err)
	}
	return l, nil
}

// FindByIDs retrieves all leads whose ids are in the given set.
func (r *LeadRepository) FindByIDs(ctx context.Context, ids []string) ([]lead.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id = ANY($1)`, leadColumns)

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find leads: %w", err)
	}
	defer rows.Close()
	return collectLeads(rows)
}

// FindByContact retrieves leads matching any of the given emails or phones.
// Used by the bulk upload to report already-existing rows.
func (r *LeadRepository) FindByContact(ctx context.Context, emails, phones []string) ([]lead.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE email = ANY($1) OR phone = ANY($2)`, leadColumns)

	rows, err := r.db.Query(ctx, query, emails, phones)
	if err != nil {
		return nil, fmt.Errorf("failed to find leads by contact: %w", err)
	}
	defer rows.Close()
	return collectLeads(rows)
}

// List retrieves every lead in the active pool.
func (r *LeadRepository) List(ctx context.Context) ([]lead.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads ORDER BY created_at DESC`, leadColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()
	return collectLeads(rows)
}

// ListAssigned retrieves leads currently owned by an agent, newest first.
func (r *LeadRepository) ListAssigned(ctx context.Context) ([]lead.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE assigned_to IS NOT NULL ORDER BY assigned_at DESC`, leadColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned leads: %w", err)
	}
	defer rows.Close()
	return collectLeads(rows)
}

// UpdateIdentity updates the editable attribute fields of a lead.
func (r *LeadRepository) UpdateIdentity(ctx context.Context, l *lead.Lead) error {
	query := `
		UPDATE leads
		SET name = $1, email = $2, phone = $3, course = $4, place = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query, l.Name, l.Email, l.Phone, l.Course, l.Place, time.Now(), l.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return xerrors.ErrConflict
		}
		return fmt.Errorf("failed to update lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdateByContact rewrites the attribute fields of the lead matching the
// given email or phone. Returns the number of rows touched (0 or 1).
func (r *LeadRepository) UpdateByContact(ctx context.Context, name, email, phone, course, place string) (int64, error) {
	query := `
		UPDATE leads
		SET name = $1, course = $2, place = $3, updated_at = $4
		WHERE email = $5 OR phone = $6
	`
	result, err := r.db.Exec(ctx, query, name, course, place, time.Now(), email, phone)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert lead by contact: %w", err)
	}
	return result.RowsAffected(), nil
}

// SetAssignment points the lead at its new owning agent.
func (r *LeadRepository) SetAssignment(ctx context.Context, leadID, agentID string, at time.Time) error {
	query := `UPDATE leads SET assigned_to = $1, assigned_at = $2, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, agentID, at, leadID)
	if err != nil {
		return fmt.Errorf("failed to set assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdateCallInfo persists the embedded call outcome state.
func (r *LeadRepository) UpdateCallInfo(ctx context.Context, leadID string, ci lead.CallOutcome) error {
	query := `
		UPDATE leads
		SET call_status = $1, call_duration = $2, interested = $3, plan_type = $4,
		    completed_at = $5, timer_duration_seconds = $6, verified = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := r.db.Exec(ctx, query,
		ci.CallStatus, ci.CallDuration, ci.Interested, ci.PlanType,
		ci.CompletedAt, ci.TimerDurationSeconds, ci.Verified, time.Now(), leadID,
	)
	if err != nil {
		return fmt.Errorf("failed to update call info: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// SetVerified flips the one-way verification flag on a single lead.
func (r *LeadRepository) SetVerified(ctx context.Context, leadID string) error {
	query := `UPDATE leads SET verified = TRUE, updated_at = $1 WHERE id = $2`

	result, err := r.db.Exec(ctx, query, time.Now(), leadID)
	if err != nil {
		return fmt.Errorf("failed to verify lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// BulkVerify flips the verification flag on every matching lead and reports
// how many rows changed.
func (r *LeadRepository) BulkVerify(ctx context.Context, leadIDs []string) (int64, error) {
	query := `UPDATE leads SET verified = TRUE, updated_at = $1 WHERE id = ANY($2) AND verified = FALSE`

	result, err := r.db.Exec(ctx, query, time.Now(), leadIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk verify leads: %w", err)
	}
	return result.RowsAffected(), nil
}

// Delete removes a lead from the active pool.
func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// DeleteMany removes a batch of leads and reports how many existed.
func (r *LeadRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete leads: %w", err)
	}
	return result.RowsAffected(), nil
}

// Overview returns the lead-pool dashboard counts.
func (r *LeadRepository) Overview(ctx context.Context) (*lead.Overview, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE assigned_to IS NULL),
		       COUNT(*) FILTER (WHERE assigned_to IS NOT NULL)
		FROM leads
	`
	var o lead.Overview
	if err := r.db.QueryRow(ctx, query).Scan(&o.TotalLeads, &o.UnassignedLeads, &o.AssignedLeads); err != nil {
		return nil, fmt.Errorf("failed to get leads overview: %w", err)
	}
	return &o, nil
}

// CompletionCounts returns the agent's total assigned leads and how many of
// those carry a completed call outcome.
func (r *LeadRepository) CompletionCounts(ctx context.Context, agentID string) (total, completed int64, err error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE completed_at IS NOT NULL)
		FROM leads
		WHERE assigned_to = $1
	`
	if err := r.db.QueryRow(ctx, query, agentID).Scan(&total, &completed); err != nil {
		return 0, 0, fmt.Errorf("failed to count completion: %w", err)
	}
	return total, completed, nil
}

func collectLeads(rows pgx.Rows) ([]lead.Lead, error) {
	leads := []lead.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leads: %w", err)
	}
	return leads, nil
}
