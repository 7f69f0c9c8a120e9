// internal/domain/workreport/entity.go
package workreport

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// PlanCounts tallies sold plan types inside one report bucket.
type PlanCounts struct {
	Starter int64 `json:"Starter"`
	Gold    int64 `json:"Gold"`
	Master  int64 `json:"Master"`
}

// Report is the derived per-(agent, day/week/month) rollup. Rows are
// rebuildable: every metric is recomputed from scratch on upsert, never
// accumulated, so repeated saves cannot double-count.
type Report struct {
	ID       string         `json:"id" db:"id"`
	AgentID  string         `json:"agent_id" db:"agent_id"`
	Username string         `json:"username" db:"username"`
	Phone    sql.NullString `json:"phone" db:"phone"`

	Day   string `json:"day" db:"day"`     // 2025-11-03
	Week  string `json:"week" db:"week"`   // 2025-W45
	Month string `json:"month" db:"month"` // 2025-11

	AssignedCount            int64 `json:"assignedCount" db:"assigned_count"`
	CompletedCount           int64 `json:"completedCount" db:"completed_count"`
	TotalCallDurationSeconds int64 `json:"totalCallDurationSeconds" db:"total_call_duration_seconds"`
	TotalTimerSeconds        int64 `json:"totalTimerSeconds" db:"total_timer_seconds"`

	AssignedDates  pq.StringArray `json:"assignedDates" db:"assigned_dates"`
	CompletedDates pq.StringArray `json:"completedDates" db:"completed_dates"`

	TotalPlans int64      `json:"totalPlans" db:"total_plans"`
	PlanCounts PlanCounts `json:"planCounts" db:"plan_counts"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
