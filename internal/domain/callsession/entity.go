// internal/domain/callsession/entity.go
package callsession

import (
	"database/sql"
	"time"
)

// Session lifecycle states.
const (
	StatusStarted   = "Started"
	StatusStopped   = "Stopped"
	StatusAbandoned = "Abandoned"
)

// Session times one call attempt by an agent against a lead. At most one
// session per (lead, agent) pair may be active (StoppedAt null) at a time.
type Session struct {
	ID              string        `json:"id" db:"id"`
	LeadID          string        `json:"lead_id" db:"lead_id"`
	AgentID         string        `json:"agent_id" db:"agent_id"`
	StartedAt       time.Time     `json:"started_at" db:"started_at"`
	StoppedAt       sql.NullTime  `json:"stopped_at" db:"stopped_at"`
	DurationSeconds sql.NullInt64 `json:"duration_seconds" db:"duration_seconds"`
	Status          string        `json:"status" db:"status"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
}
