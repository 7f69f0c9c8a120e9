// internal/domain/agent/entity.go
package agent

import (
	"database/sql"
	"time"
)

// Roles the identity collaborator issues in its tokens.
const (
	RoleAdmin = "Admin"
	RoleAgent = "User"
)

type Agent struct {
	ID       string `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
	Phone    string `json:"phone" db:"phone"`
	Role     string `json:"role" db:"role"`
	Verified bool   `json:"verified" db:"verified"`

	// Flipped by completion detection whenever all of the agent's assigned
	// leads have a completed call outcome.
	IsAssignmentComplete  bool         `json:"is_assignment_complete" db:"is_assignment_complete"`
	AssignmentCompletedAt sql.NullTime `json:"assignment_completed_at" db:"assignment_completed_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Overview summarizes the agent directory for the admin dashboard.
type Overview struct {
	TotalAgents    int64   `json:"totalUsers"`
	VerifiedAgents int64   `json:"verifiedUsers"`
	PendingAgents  int64   `json:"pendingUsers"`
	NewAgents      []Agent `json:"newUsers"`
}
