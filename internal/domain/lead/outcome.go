// internal/domain/lead/outcome.go
package lead

import (
	"database/sql"
	"time"
)

// OutcomeUpdate carries the outcome fields an agent or admin submits.
// Nil pointers mean "not supplied".
type OutcomeUpdate struct {
	CallStatus   *string `json:"call_status"`
	CallDuration *int32  `json:"call_duration"` // minutes
	Interested   *string `json:"interested"`
	PlanType     *string `json:"plan_type"`
}

// ApplyOutcome rewrites the outcome from the submitted fields.
//
// Normalization rules:
//   - callStatus outside the enum reads as none
//   - SwitchedOff clears callDuration, interested and planType
//   - interested outside the enum reads as none
//   - planType is only kept when interested = Yes
//   - completedAt is now when a callStatus is present, none otherwise
//
// TimerDurationSeconds and Verified are owned by the session tracker and the
// verification gate and are left untouched.
func ApplyOutcome(o *CallOutcome, upd OutcomeUpdate, now time.Time) {
	o.CallStatus = normStatus(upd.CallStatus)

	if o.CallStatus.String == CallSwitchedOff && o.CallStatus.Valid {
		o.CallDuration = sql.NullInt32{}
		o.Interested = sql.NullString{}
		o.PlanType = sql.NullString{}
	} else {
		if upd.CallDuration != nil {
			o.CallDuration = sql.NullInt32{Int32: *upd.CallDuration, Valid: true}
		} else {
			o.CallDuration = sql.NullInt32{}
		}
		o.Interested = normInterest(upd.Interested)
		o.PlanType = normPlan(upd.PlanType, o.Interested)
	}

	if o.CallStatus.Valid {
		o.CompletedAt = sql.NullTime{Time: now, Valid: true}
	} else {
		o.CompletedAt = sql.NullTime{}
	}
}

// MergeOutcome folds the supplied fields into an existing outcome without
// touching completedAt. Used on session stop, where completedAt tracks the
// stop timestamp instead.
func MergeOutcome(o *CallOutcome, upd OutcomeUpdate) {
	if upd.CallStatus != nil {
		o.CallStatus = normStatus(upd.CallStatus)
	}
	if o.CallStatus.Valid && o.CallStatus.String == CallSwitchedOff {
		o.CallDuration = sql.NullInt32{}
		o.Interested = sql.NullString{}
		o.PlanType = sql.NullString{}
		return
	}
	if upd.CallDuration != nil {
		o.CallDuration = sql.NullInt32{Int32: *upd.CallDuration, Valid: true}
	}
	if upd.Interested != nil {
		o.Interested = normInterest(upd.Interested)
	}
	if upd.PlanType != nil {
		o.PlanType = normPlan(upd.PlanType, o.Interested)
	}
	// planType never survives without interested = Yes
	if !o.Interested.Valid || o.Interested.String != InterestedYes {
		o.PlanType = sql.NullString{}
	}
}

func normStatus(s *string) sql.NullString {
	if s == nil || !ValidCallStatus(*s) {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func normInterest(s *string) sql.NullString {
	if s == nil || !ValidInterest(*s) {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func normPlan(s *string, interested sql.NullString) sql.NullString {
	if s == nil || !ValidPlanType(*s) {
		return sql.NullString{}
	}
	if !interested.Valid || interested.String != InterestedYes {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
