// internal/domain/followup/entity.go
package followup

import (
	"time"
)

// Terminal store modes.
const (
	ModeAdmission    = "admission"
	ModeContactLater = "contactLater"
)

// Record is a lead moved out of the active pool into a terminal store.
// PlanType and AssigneeName are snapshotted at move time because the source
// lead is deleted in the same transaction; OriginalLeadID is kept for audit.
type Record struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Phone          string    `json:"phone" db:"phone"`
	Course         string    `json:"course" db:"course"`
	Place          string    `json:"place" db:"place"`
	MovedAt        time.Time `json:"movedAt" db:"moved_at"`
	OriginalLeadID string    `json:"originalStudentId" db:"original_lead_id"`
	PlanType       string    `json:"planType" db:"plan_type"`
	AssigneeName   string    `json:"assigneeName" db:"assignee_name"`
}

// ListFilters carries the terminal-store search/sort/page parameters.
type ListFilters struct {
	Search  string `form:"search"`
	SortKey string `form:"sortKey"`
	SortDir string `form:"sortDir"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
}

// ListResult is the paginated terminal-store response.
type ListResult struct {
	Total int64    `json:"total"`
	Rows  []Record `json:"rows"`
}

type MoveRequest struct {
	LeadIDs []string `json:"ids" binding:"required"`
}
