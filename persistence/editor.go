package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nicopkrauss/talenttracker/model"
	"github.com/nicopkrauss/talenttracker/shift"
)

// TimeEdits carries the fields a supervisor may rewrite through the
// time-field editor. Nil means leave unchanged; a zero time clears the field.
type TimeEdits struct {
	CheckInTime    *time.Time
	BreakStartTime *time.Time
	BreakEndTime   *time.Time
	CheckOutTime   *time.Time
}

type timeChange struct {
	column   string
	old, new *time.Time
}

// applyTimeEdits mutates rec in place and returns one change per field whose
// stored value actually differs. Submitting the value already on the record
// is a no-op and produces no audit row.
func applyTimeEdits(rec *model.ShiftRecord, edits TimeEdits) []timeChange {
	var changes []timeChange
	apply := func(column string, cur **time.Time, edit *time.Time) {
		if edit == nil {
			return
		}
		var next *time.Time
		if !edit.IsZero() {
			next = edit
		}
		if next == nil && *cur == nil {
			return
		}
		if next != nil && *cur != nil && next.Equal(**cur) {
			return
		}
		changes = append(changes, timeChange{column: column, old: *cur, new: next})
		*cur = next
	}
	apply("check_in_time", &rec.CheckInTime, edits.CheckInTime)
	apply("break_start_time", &rec.BreakStartTime, edits.BreakStartTime)
	apply("break_end_time", &rec.BreakEndTime, edits.BreakEndTime)
	apply("check_out_time", &rec.CheckOutTime, edits.CheckOutTime)
	return changes
}

const timeLayout = time.RFC3339

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}

// validatePresence reconciles which timestamps are set with the shift status.
// An edit must not leave the record claiming a point in the shift the status
// says was never reached, or vice versa.
func validatePresence(rec *model.ShiftRecord) error {
	has := func(t *time.Time) bool { return t != nil }

	if has(rec.CheckOutTime) != (rec.Status == model.StatusCheckedOut) {
		return fmt.Errorf("checkOutTime must be set exactly when the shift is %s", model.StatusCheckedOut)
	}

	switch rec.Status {
	case model.StatusNotStarted:
		if has(rec.CheckInTime) || has(rec.BreakStartTime) || has(rec.BreakEndTime) {
			return fmt.Errorf("timestamps set on a %s shift", rec.Status)
		}
	case model.StatusCheckedIn:
		if !has(rec.CheckInTime) {
			return fmt.Errorf("checkInTime missing on a %s shift", rec.Status)
		}
		if has(rec.BreakStartTime) || has(rec.BreakEndTime) {
			return fmt.Errorf("break timestamps set while %s", rec.Status)
		}
	case model.StatusOnBreak:
		if !has(rec.CheckInTime) || !has(rec.BreakStartTime) {
			return fmt.Errorf("checkInTime and breakStartTime required while %s", rec.Status)
		}
		if has(rec.BreakEndTime) {
			return fmt.Errorf("breakEndTime set while still %s", rec.Status)
		}
	case model.StatusBreakEnded:
		if !has(rec.CheckInTime) || !has(rec.BreakStartTime) || !has(rec.BreakEndTime) {
			return fmt.Errorf("checkInTime, breakStartTime and breakEndTime required on a %s shift", rec.Status)
		}
	case model.StatusCheckedOut:
		if !has(rec.CheckInTime) {
			return fmt.Errorf("checkInTime missing on a %s shift", rec.Status)
		}
		if has(rec.BreakStartTime) != has(rec.BreakEndTime) {
			return fmt.Errorf("break timestamps must be set as a pair")
		}
	}
	return nil
}

// validateOrdering enforces checkIn <= breakStart <= breakEnd <= checkOut on
// the record after edits.
func validateOrdering(rec *model.ShiftRecord) error {
	prev := rec.CheckInTime
	for _, step := range []struct {
		name string
		t    *time.Time
	}{
		{"breakStartTime", rec.BreakStartTime},
		{"breakEndTime", rec.BreakEndTime},
		{"checkOutTime", rec.CheckOutTime},
	} {
		if step.t == nil {
			continue
		}
		if prev == nil {
			return fmt.Errorf("%s set without the preceding timestamp", step.name)
		}
		if step.t.Before(*prev) {
			return fmt.Errorf("%s precedes the previous timestamp", step.name)
		}
		prev = step.t
	}
	return nil
}

// UpdateShiftTimes applies supervisor edits to a shift's timestamps, keeping
// them ordered, and writes one audit row per changed field.
func (p *ShiftPersister) UpdateShiftTimes(ctx context.Context, shiftID, actorID uuid.UUID, edits TimeEdits) (*model.ShiftRecord, error) {
	var out model.ShiftRecord
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec model.ShiftRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&rec, "id = ?", shiftID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("shift %s not found", shiftID)
			}
			return err
		}

		changes := applyTimeEdits(&rec, edits)
		if len(changes) == 0 {
			out = rec
			return nil
		}
		if err := validatePresence(&rec); err != nil {
			return err
		}
		if err := validateOrdering(&rec); err != nil {
			return err
		}

		updates := map[string]any{}
		for _, c := range changes {
			updates[c.column] = c.new
		}
		if err := tx.Model(&rec).Updates(updates).Error; err != nil {
			return err
		}

		for _, c := range changes {
			entry := model.AuditEntry{
				ShiftID:  rec.ID,
				WorkerID: rec.WorkerID,
				ActorID:  actorID,
				Action:   "edit_time",
				Field:    c.column,
				OldValue: formatTime(c.old),
				NewValue: formatTime(c.new),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveBreak closes a dangling break: a shift still on_break (the worker
// never tapped end-break) is moved to break_ended at the supplied time.
func (p *ShiftPersister) ResolveBreak(ctx context.Context, shiftID, actorID uuid.UUID, endedAt time.Time) (*model.ShiftRecord, error) {
	var out model.ShiftRecord
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec model.ShiftRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&rec, "id = ?", shiftID).Error; err != nil {
			return err
		}
		if rec.Status != model.StatusOnBreak {
			return fmt.Errorf("shift is %s, no break to resolve", rec.Status)
		}
		if rec.BreakStartTime != nil && endedAt.Before(*rec.BreakStartTime) {
			return fmt.Errorf("break end precedes break start")
		}

		if err := tx.Model(&rec).Updates(map[string]any{
			"status":         model.StatusBreakEnded,
			"break_end_time": endedAt,
		}).Error; err != nil {
			return err
		}
		rec.Status = model.StatusBreakEnded
		rec.BreakEndTime = &endedAt

		entry := model.AuditEntry{
			ShiftID:  rec.ID,
			WorkerID: rec.WorkerID,
			ActorID:  actorID,
			Action:   "resolve_break",
			Field:    "break_end_time",
			OldValue: "",
			NewValue: endedAt.Format(timeLayout),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

var _ shift.TransitionPersister = (*ShiftPersister)(nil)
