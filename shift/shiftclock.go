package shift

import (
	"time"

	"github.com/nicopkrauss/talenttracker/model"
)

// ElapsedHours returns the non-negative number of hours between from and to.
// A nil to means the interval is still open and now is used instead.
func ElapsedHours(from time.Time, to *time.Time, now time.Time) float64 {
	end := now
	if to != nil {
		end = *to
	}
	d := end.Sub(from)
	if d < 0 {
		return 0
	}
	return d.Hours()
}

// IsOvertime reports whether shiftHours strictly exceeds thresholdHours.
func IsOvertime(shiftHours, thresholdHours float64) bool {
	return shiftHours > thresholdHours
}

// ShiftHours returns the worked hours for rec: check-in to check-out (or now
// while the shift is open), minus any break time. Zero before check-in.
func ShiftHours(rec *model.ShiftRecord, now time.Time) float64 {
	if rec.CheckInTime == nil {
		return 0
	}
	total := ElapsedHours(*rec.CheckInTime, rec.CheckOutTime, now)
	if rec.BreakStartTime != nil {
		total -= ElapsedHours(*rec.BreakStartTime, rec.BreakEndTime, now)
	}
	if total < 0 {
		return 0
	}
	return total
}

// BreakElapsed returns how long the current break has been running. Zero
// unless the shift is on break.
func BreakElapsed(rec *model.ShiftRecord, now time.Time) time.Duration {
	if rec.Status != model.StatusOnBreak || rec.BreakStartTime == nil {
		return 0
	}
	d := now.Sub(*rec.BreakStartTime)
	if d < 0 {
		return 0
	}
	return d
}

// DerivedState is recomputed from the record and wall-clock time on every
// tick; it is never persisted.
type DerivedState struct {
	ShiftHours          float64       `json:"shiftHours"`
	Overtime            bool          `json:"overtime"`
	BreakElapsedMinutes float64       `json:"breakElapsedMinutes"`
	BreakElapsed        time.Duration `json:"-"`
}

// Derive computes the derived quantities for rec at now under pol.
func Derive(rec *model.ShiftRecord, pol Policy, now time.Time) DerivedState {
	hours := ShiftHours(rec, now)
	be := BreakElapsed(rec, now)
	return DerivedState{
		ShiftHours:          hours,
		Overtime:            IsOvertime(hours, pol.OvertimeThresholdHours),
		BreakElapsedMinutes: be.Minutes(),
		BreakElapsed:        be,
	}
}
