// internal/repository/postgres/followup_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"leadflow-service/internal/domain/followup"
	xerrors "leadflow-service/internal/pkg/errors"
)

type FollowupRepository struct {
	db DBTX
}

func NewFollowupRepository(db DBTX) *FollowupRepository {
	return &FollowupRepository{db: db}
}

func tableFor(mode string) string {
	if mode == followup.ModeContactLater {
		return "contact_later"
	}
	return "admissions"
}

var followupSortKeys = map[string]string{
	"name":    "name",
	"email":   "email",
	"phone":   "phone",
	"course":  "course",
	"place":   "place",
	"movedAt": "moved_at",
}

// MoveLeads copies the given records into the terminal store and deletes the
// source leads, all inside one transaction: either the whole move lands or
// none of it does.
func (r *FollowupRepository) MoveLeads(ctx context.Context, mode string, records []followup.Record) error {
	table := tableFor(mode)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin move transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (id, name, email, phone, course, place, moved_at, original_lead_id, plan_type, assignee_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, table)

	leadIDs := make([]string, 0, len(records))
	for _, rec := range records {
		if _, err := tx.Exec(ctx, insertQuery,
			rec.ID, rec.Name, rec.Email, rec.Phone, rec.Course, rec.Place,
			rec.MovedAt, rec.OriginalLeadID, rec.PlanType, rec.AssigneeName,
		); err != nil {
			return fmt.Errorf("failed to insert %s record: %w", table, err)
		}
		leadIDs = append(leadIDs, rec.OriginalLeadID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM leads WHERE id = ANY($1)`, leadIDs); err != nil {
		return fmt.Errorf("failed to delete moved leads: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit move transaction: %w", err)
	}
	return nil
}

// List searches a terminal store with case-insensitive substring match over
// name/email/phone/course/place, whitelisted sorting and pagination.
func (r *FollowupRepository) List(ctx context.Context, mode string, filters followup.ListFilters) (*followup.ListResult, error) {
	table := tableFor(mode)

	where := ""
	args := []interface{}{}
	if filters.Search != "" {
		where = `WHERE (name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1 OR course ILIKE $1 OR place ILIKE $1)`
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, table, where)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count %s rows: %w", table, err)
	}

	sortCol, ok := followupSortKeys[filters.SortKey]
	if !ok {
		sortCol = "moved_at"
	}
	sortDir := "DESC"
	if strings.EqualFold(filters.SortDir, "asc") {
		sortDir = "ASC"
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = 10
	}
	offset := (filters.Page - 1) * filters.Limit

	query := fmt.Sprintf(`
		SELECT id, name, email, phone, course, place, moved_at, original_lead_id, plan_type, assignee_name
		FROM %s %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, table, where, sortCol, sortDir, len(args)+1, len(args)+2)
	args = append(args, filters.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s rows: %w", table, err)
	}
	defer rows.Close()

	result := &followup.ListResult{Total: total, Rows: []followup.Record{}}
	for rows.Next() {
		var rec followup.Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Phone, &rec.Course, &rec.Place,
			&rec.MovedAt, &rec.OriginalLeadID, &rec.PlanType, &rec.AssigneeName); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		result.Rows = append(result.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", table, err)
	}
	return result, nil
}

// Delete removes one terminal-store row.
func (r *FollowupRepository) Delete(ctx context.Context, mode, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, tableFor(mode))

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete followup record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
