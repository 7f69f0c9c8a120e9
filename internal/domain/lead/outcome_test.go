package lead

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func i32Ptr(v int32) *int32   { return &v }

func TestApplyOutcome_FullUpdate(t *testing.T) {
	var o CallOutcome
	now := time.Now()

	ApplyOutcome(&o, OutcomeUpdate{
		CallStatus:   strPtr(CallAccepted),
		CallDuration: i32Ptr(12),
		Interested:   strPtr(InterestedYes),
		PlanType:     strPtr(PlanGold),
	}, now)

	assert.Equal(t, sql.NullString{String: CallAccepted, Valid: true}, o.CallStatus)
	assert.Equal(t, sql.NullInt32{Int32: 12, Valid: true}, o.CallDuration)
	assert.Equal(t, sql.NullString{String: InterestedYes, Valid: true}, o.Interested)
	assert.Equal(t, sql.NullString{String: PlanGold, Valid: true}, o.PlanType)
	assert.True(t, o.CompletedAt.Valid)
	assert.Equal(t, now, o.CompletedAt.Time)
}

func TestApplyOutcome_SwitchedOffClearsDetails(t *testing.T) {
	var o CallOutcome
	now := time.Now()

	ApplyOutcome(&o, OutcomeUpdate{
		CallStatus:   strPtr(CallSwitchedOff),
		CallDuration: i32Ptr(5),
		Interested:   strPtr(InterestedYes),
		PlanType:     strPtr(PlanStarter),
	}, now)

	assert.Equal(t, sql.NullString{String: CallSwitchedOff, Valid: true}, o.CallStatus)
	assert.False(t, o.CallDuration.Valid)
	assert.False(t, o.Interested.Valid)
	assert.False(t, o.PlanType.Valid)
	// A switched-off call is still a completed attempt.
	assert.True(t, o.CompletedAt.Valid)
}

func TestApplyOutcome_UnknownStatusReadsAsNone(t *testing.T) {
	var o CallOutcome
	ApplyOutcome(&o, OutcomeUpdate{CallStatus: strPtr("Busy")}, time.Now())

	assert.False(t, o.CallStatus.Valid)
	assert.False(t, o.CompletedAt.Valid)
}

func TestApplyOutcome_NoStatusClearsCompletedAt(t *testing.T) {
	o := CallOutcome{
		CallStatus:  sql.NullString{String: CallAccepted, Valid: true},
		CompletedAt: sql.NullTime{Time: time.Now(), Valid: true},
	}
	ApplyOutcome(&o, OutcomeUpdate{Interested: strPtr(InterestedNo)}, time.Now())

	assert.False(t, o.CallStatus.Valid)
	assert.False(t, o.CompletedAt.Valid)
	assert.Equal(t, sql.NullString{String: InterestedNo, Valid: true}, o.Interested)
}

func TestApplyOutcome_PlanRequiresInterestedYes(t *testing.T) {
	var o CallOutcome
	ApplyOutcome(&o, OutcomeUpdate{
		CallStatus: strPtr(CallAccepted),
		Interested: strPtr(InterestedNo),
		PlanType:   strPtr(PlanMaster),
	}, time.Now())

	assert.False(t, o.PlanType.Valid)
}

func TestApplyOutcome_PreservesTimerAndVerified(t *testing.T) {
	o := CallOutcome{
		TimerDurationSeconds: sql.NullInt64{Int64: 240, Valid: true},
	}
	ApplyOutcome(&o, OutcomeUpdate{CallStatus: strPtr(CallRejected)}, time.Now())

	assert.Equal(t, sql.NullInt64{Int64: 240, Valid: true}, o.TimerDurationSeconds)
	assert.False(t, o.Verified)
}

func TestMergeOutcome_KeepsExistingFields(t *testing.T) {
	completed := time.Now().Add(-time.Hour)
	o := CallOutcome{
		CallStatus:  sql.NullString{String: CallAccepted, Valid: true},
		Interested:  sql.NullString{String: InterestedYes, Valid: true},
		PlanType:    sql.NullString{String: PlanGold, Valid: true},
		CompletedAt: sql.NullTime{Time: completed, Valid: true},
	}

	MergeOutcome(&o, OutcomeUpdate{CallDuration: i32Ptr(8)})

	assert.Equal(t, sql.NullString{String: CallAccepted, Valid: true}, o.CallStatus)
	assert.Equal(t, sql.NullInt32{Int32: 8, Valid: true}, o.CallDuration)
	assert.Equal(t, sql.NullString{String: PlanGold, Valid: true}, o.PlanType)
	assert.Equal(t, completed, o.CompletedAt.Time)
}

func TestMergeOutcome_SwitchedOffClears(t *testing.T) {
	o := CallOutcome{
		CallDuration: sql.NullInt32{Int32: 3, Valid: true},
		Interested:   sql.NullString{String: InterestedYes, Valid: true},
		PlanType:     sql.NullString{String: PlanStarter, Valid: true},
	}

	MergeOutcome(&o, OutcomeUpdate{CallStatus: strPtr(CallSwitchedOff)})

	assert.False(t, o.CallDuration.Valid)
	assert.False(t, o.Interested.Valid)
	assert.False(t, o.PlanType.Valid)
}

func TestMergeOutcome_PlanDroppedWhenInterestChanges(t *testing.T) {
	o := CallOutcome{
		Interested: sql.NullString{String: InterestedYes, Valid: true},
		PlanType:   sql.NullString{String: PlanGold, Valid: true},
	}

	MergeOutcome(&o, OutcomeUpdate{Interested: strPtr(InterestedInformLater)})

	assert.Equal(t, sql.NullString{String: InterestedInformLater, Valid: true}, o.Interested)
	assert.False(t, o.PlanType.Valid)
}

func TestCallMarked(t *testing.T) {
	var l Lead
	assert.Equal(t, "not marked", l.CallMarked())

	l.CallInfo.CallStatus = sql.NullString{String: CallMissed, Valid: true}
	assert.Equal(t, "marked", l.CallMarked())
}
