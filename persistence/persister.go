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

// ErrConflict means the row's status no longer allows the requested action,
// i.e. another device applied a transition first.
var ErrConflict = errors.New("conflict")

// ShiftPersister is the gorm-backed persistence collaborator. It re-validates
// every transition against the row it actually holds, so a conflicting edit
// from another device surfaces as an error instead of being overwritten.
type ShiftPersister struct {
	db *gorm.DB
}

func NewShiftPersister(db *gorm.DB) *ShiftPersister {
	return &ShiftPersister{db: db}
}

// PerformTransition applies action to the shift row inside one transaction:
// row lock, server-side legality check, status + timestamp update, audit row.
// Either all of it happens or none of it does.
func (p *ShiftPersister) PerformTransition(ctx context.Context, shiftID uuid.UUID, action shift.Action, at time.Time) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec model.ShiftRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&rec, "id = ?", shiftID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("shift %s not found", shiftID)
			}
			return err
		}

		next, ok := shift.NextStatus(rec.Status, action)
		if !ok {
			// Another device got there first.
			return fmt.Errorf("%w: %s not legal while %s", ErrConflict, action, rec.Status)
		}

		updates := map[string]any{"status": next}
		var field string
		switch action {
		case shift.ActionCheckIn:
			field = "check_in_time"
		case shift.ActionStartBreak:
			field = "break_start_time"
		case shift.ActionEndBreak:
			field = "break_end_time"
		case shift.ActionCheckOut:
			field = "check_out_time"
		}
		updates[field] = at

		if err := tx.Model(&rec).Updates(updates).Error; err != nil {
			return err
		}

		entry := model.AuditEntry{
			ShiftID:  rec.ID,
			WorkerID: rec.WorkerID,
			ActorID:  rec.WorkerID,
			Action:   string(action),
			Field:    "status",
			OldValue: string(rec.Status),
			NewValue: string(next),
		}
		return tx.Create(&entry).Error
	})
}

// FetchShift loads the current server record.
func (p *ShiftPersister) FetchShift(ctx context.Context, shiftID uuid.UUID) (*model.ShiftRecord, error) {
	var rec model.ShiftRecord
	if err := p.db.WithContext(ctx).First(&rec, "id = ?", shiftID).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateShift inserts a fresh not_started record for a worker's scheduled
// shift. A new record per day is how a worker gets back to not_started; the
// old record stays terminal.
func (p *ShiftPersister) CreateShift(ctx context.Context, workerID, projectID uuid.UUID, role string, scheduledStart time.Time) (*model.ShiftRecord, error) {
	rec := model.ShiftRecord{
		WorkerID:           workerID,
		ProjectID:          projectID,
		Role:               role,
		Status:             model.StatusNotStarted,
		ScheduledStartTime: scheduledStart,
	}
	if err := p.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create shift: %w", err)
	}
	return &rec, nil
}
