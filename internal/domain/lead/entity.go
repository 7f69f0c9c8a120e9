// internal/domain/lead/entity.go
package lead

import (
	"database/sql"
	"time"
)

// Call status values recorded against a lead.
const (
	CallMissed      = "Missed"
	CallAccepted    = "Accepted"
	CallRejected    = "Rejected"
	CallSwitchedOff = "SwitchedOff"
)

// Interest levels entered by the agent after a call.
const (
	InterestedYes         = "Yes"
	InterestedNo          = "No"
	InterestedInformLater = "InformLater"
)

// Plan types offered to interested leads.
const (
	PlanStarter = "Starter"
	PlanGold    = "Gold"
	PlanMaster  = "Master"
)

// CallOutcome is the call result state embedded in a lead. Once Verified is
// set the outcome is frozen; there is no unverify path.
type CallOutcome struct {
	CallStatus           sql.NullString `json:"call_status"`
	CallDuration         sql.NullInt32  `json:"call_duration"` // agent-entered, minutes
	Interested           sql.NullString `json:"interested"`
	PlanType             sql.NullString `json:"plan_type"`
	CompletedAt          sql.NullTime   `json:"completed_at"`
	TimerDurationSeconds sql.NullInt64  `json:"timer_duration_seconds"` // measured by call sessions
	Verified             bool           `json:"verified"`
}

type Lead struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Email  string `json:"email" db:"email"`
	Phone  string `json:"phone" db:"phone"`
	Course string `json:"course" db:"course"`
	Place  string `json:"place" db:"place"`

	// Current assignment
	AssignedTo sql.NullString `json:"assigned_to" db:"assigned_to"`
	AssignedAt sql.NullTime   `json:"assigned_at" db:"assigned_at"`

	CallInfo CallOutcome `json:"call_info"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CallMarked reports whether any outcome field has been recorded.
func (l *Lead) CallMarked() string {
	ci := l.CallInfo
	if ci.CallStatus.Valid || ci.CallDuration.Valid || ci.Interested.Valid ||
		ci.PlanType.Valid || ci.CompletedAt.Valid {
		return "marked"
	}
	return "not marked"
}

func ValidCallStatus(s string) bool {
	switch s {
	case CallMissed, CallAccepted, CallRejected, CallSwitchedOff:
		return true
	}
	return false
}

func ValidInterest(s string) bool {
	switch s {
	case InterestedYes, InterestedNo, InterestedInformLater:
		return true
	}
	return false
}

func ValidPlanType(s string) bool {
	switch s {
	case PlanStarter, PlanGold, PlanMaster:
		return true
	}
	return false
}
