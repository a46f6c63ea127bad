package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditEntry is one field-level change to a shift record: a transition applied
// by the worker, or a manual edit made through the time-field editor.
type AuditEntry struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ShiftID  uuid.UUID `gorm:"type:char(36);index;not null" json:"shiftId"`
	WorkerID uuid.UUID `gorm:"type:char(36);index;not null" json:"workerId"`

	Action   string `gorm:"type:varchar(30);not null" json:"action"`
	Field    string `gorm:"type:varchar(40);not null" json:"field"`
	OldValue string `gorm:"type:varchar(64)" json:"oldValue"`
	NewValue string `gorm:"type:varchar(64)" json:"newValue"`

	// ActorID differs from WorkerID when a supervisor edits the timecard.
	ActorID   uuid.UUID `gorm:"type:char(36);not null" json:"actorId"`
	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
}

func (AuditEntry) TableName() string {
	return "shift_audit_entries"
}

func (e *AuditEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
