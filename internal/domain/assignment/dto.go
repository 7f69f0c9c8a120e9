// internal/domain/assignment/dto.go
package assignment

import (
	"time"

	"leadflow-service/internal/domain/lead"
)

type AssignRequest struct {
	LeadIDs []string `json:"studentIds" binding:"required"`
	AgentID string   `json:"userId" binding:"required"`
}

// AssignResult is the batch manifest: ids that were assigned and ids that did
// not resolve to a lead (skipped with a warning, per the batch contract).
type AssignResult struct {
	Assigned []string `json:"assigned"`
	Skipped  []string `json:"skipped"`
}

// AssignedLead is one currently-assigned lead joined with its full ownership
// history (chronological ascending).
type AssignedLead struct {
	Lead    lead.Lead `json:"lead"`
	History []Record  `json:"history"`
}

// AgentStats aggregates a single agent's active assignments.
type AgentStats struct {
	AgentID        string    `json:"agent_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	AssignedCount  int64     `json:"assigned_count"`
	LastAssignedAt time.Time `json:"last_assigned_at"`
}

// ActiveAssignments is the listActiveAssignments payload.
type ActiveAssignments struct {
	Leads      []AssignedLead `json:"leads"`
	AgentStats []AgentStats   `json:"agentStats"`
}
