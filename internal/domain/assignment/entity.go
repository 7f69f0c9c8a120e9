// internal/domain/assignment/entity.go
package assignment

import (
	"database/sql"
	"time"
)

// Record is one (lead, agent, time span) ownership period. UnassignedAt is
// null while the record is the lead's active assignment; at most one active
// record exists per lead.
type Record struct {
	ID           string         `json:"id" db:"id"`
	LeadID       string         `json:"lead_id" db:"lead_id"`
	AgentID      string         `json:"agent_id" db:"agent_id"`
	AssignedAt   time.Time      `json:"assigned_at" db:"assigned_at"`
	UnassignedAt sql.NullTime   `json:"unassigned_at" db:"unassigned_at"`
	AgentName    sql.NullString `json:"agent_name,omitempty" db:"agent_name"`
}
