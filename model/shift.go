package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShiftStatus is the persisted lifecycle state of a shift record.
type ShiftStatus string

const (
	StatusNotStarted ShiftStatus = "not_started"
	StatusCheckedIn  ShiftStatus = "checked_in"
	StatusOnBreak    ShiftStatus = "on_break"
	StatusBreakEnded ShiftStatus = "break_ended"
	StatusCheckedOut ShiftStatus = "checked_out"
)

// Valid reports whether s is one of the known statuses.
func (s ShiftStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusCheckedIn, StatusOnBreak, StatusBreakEnded, StatusCheckedOut:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted.
func (s ShiftStatus) Terminal() bool {
	return s == StatusCheckedOut
}

// ShiftRecord is one worker's shift on one project for one day.
// Timestamps are nullable until the corresponding transition occurs and are
// monotonically non-decreasing: checkIn <= breakStart <= breakEnd <= checkOut.
type ShiftRecord struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	WorkerID  uuid.UUID `gorm:"type:char(36);index;not null" json:"workerId"`
	ProjectID uuid.UUID `gorm:"type:char(36);index;not null" json:"projectId"`
	Role      string    `gorm:"type:varchar(50);not null" json:"role"`

	Status         ShiftStatus `gorm:"type:varchar(20);not null;default:not_started" json:"status"`
	CheckInTime    *time.Time  `gorm:"column:check_in_time" json:"checkInTime,omitempty"`
	BreakStartTime *time.Time  `gorm:"column:break_start_time" json:"breakStartTime,omitempty"`
	BreakEndTime   *time.Time  `gorm:"column:break_end_time" json:"breakEndTime,omitempty"`
	CheckOutTime   *time.Time  `gorm:"column:check_out_time" json:"checkOutTime,omitempty"`

	// Supplied by scheduling, read-only here.
	ScheduledStartTime time.Time `gorm:"column:scheduled_start_time" json:"scheduledStartTime"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (ShiftRecord) TableName() string {
	return "shift_records"
}

func (r *ShiftRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TookBreak reports whether a break was started on this shift.
func (r *ShiftRecord) TookBreak() bool {
	return r.BreakStartTime != nil
}
