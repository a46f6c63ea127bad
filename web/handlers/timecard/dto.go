package timecard

import (
	"github.com/nicopkrauss/talenttracker/model"
	"github.com/nicopkrauss/talenttracker/persistence"
	"github.com/nicopkrauss/talenttracker/shift"
	web "github.com/nicopkrauss/talenttracker/web/common"
)

type CreateShiftDTO struct {
	WorkerID           string            `json:"workerId" binding:"required,uuid"`
	ProjectID          string            `json:"projectId" binding:"required,uuid"`
	Role               string            `json:"role" binding:"required"`
	ScheduledStartTime web.LocalDateTime `json:"scheduledStartTime" binding:"required"`
}

type TransitionDTO struct {
	Action string `json:"action" binding:"required,oneof=check_in start_break end_break check_out"`
}

// TimeEditsDTO accepts the editor's timestamp strings; formats are loose on
// purpose since the UI sends whatever the picker produced. An absent field is
// left unchanged, an empty string clears the stored timestamp.
type TimeEditsDTO struct {
	CheckInTime    *string `json:"checkInTime,omitempty"`
	BreakStartTime *string `json:"breakStartTime,omitempty"`
	BreakEndTime   *string `json:"breakEndTime,omitempty"`
	CheckOutTime   *string `json:"checkOutTime,omitempty"`
}

type ResolveBreakDTO struct {
	BreakEndTime web.LocalDateTime `json:"breakEndTime" binding:"required"`
}

type SummaryDTO struct {
	Shift      model.ShiftRecord  `json:"shift"`
	Derived    shift.DerivedState `json:"derived"`
	Resolution shift.Resolution   `json:"resolution"`
	LateStart  bool               `json:"lateStart"`
}

type AuditEntryDTO struct {
	ID        string `json:"id"`
	ShiftID   string `json:"shiftId"`
	WorkerID  string `json:"workerId"`
	ActorID   string `json:"actorId"`
	Action    string `json:"action"`
	Field     string `json:"field"`
	OldValue  string `json:"oldValue"`
	NewValue  string `json:"newValue"`
	CreatedAt string `json:"createdAt"`
}

type AuditSearchDTO struct {
	ShiftID  string                  `json:"shiftId,omitempty"`
	WorkerID string                  `json:"workerId,omitempty"`
	Actions  []string                `json:"actions,omitempty"`
	Fields   []string                `json:"fields,omitempty"`
	From     web.DateOnly            `json:"from,omitempty"`
	To       web.DateOnly            `json:"to,omitempty"`
	Sorts    []persistence.SortParam `json:"sorts,omitempty"`
	Limit    int                     `json:"limit,omitempty"`
	Offset   int                     `json:"offset,omitempty"`
}
