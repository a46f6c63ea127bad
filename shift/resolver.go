package shift

import (
	"time"

	"github.com/nicopkrauss/talenttracker/model"
)

// Action is a user-triggered transition on a shift.
type Action string

const (
	ActionCheckIn    Action = "check_in"
	ActionStartBreak Action = "start_break"
	ActionEndBreak   Action = "end_break"
	ActionCheckOut   Action = "check_out"

	// ActionComplete is not a transition; it marks a finished shift so the
	// action bar can render a terminal state.
	ActionComplete Action = "complete"
)

// ParseAction maps a wire value to an Action.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionCheckIn, ActionStartBreak, ActionEndBreak, ActionCheckOut:
		return Action(s), true
	}
	return "", false
}

// Policy carries the role-dependent knobs supplied by the host. Read-only to
// this package.
type Policy struct {
	// OvertimeThresholdHours is the worked-hours limit past which the shift
	// counts as overtime.
	OvertimeThresholdHours float64
	// MinimumBreak disables the end-break control until this much of the
	// break has elapsed. Zero means no minimum.
	MinimumBreak time.Duration
	// HideWhenComplete hides the action control entirely once checked out.
	HideWhenComplete bool
}

// Resolution tells the action bar what to render for a status. Same inputs
// always yield the same resolution.
type Resolution struct {
	NextAction  Action `json:"nextAction"`
	CanEndBreak bool   `json:"canEndBreak"`
	StatusLabel string `json:"statusLabel"`
	ShowControl bool   `json:"showControl"`
}

// Resolve maps the current status (and elapsed break time) to the single next
// permitted action and its UI affordances.
func Resolve(status model.ShiftStatus, breakElapsed time.Duration, pol Policy) Resolution {
	switch status {
	case model.StatusNotStarted:
		return Resolution{NextAction: ActionCheckIn, StatusLabel: "Not Started", ShowControl: true}
	case model.StatusCheckedIn:
		return Resolution{NextAction: ActionStartBreak, StatusLabel: "Checked In", ShowControl: true}
	case model.StatusOnBreak:
		return Resolution{
			NextAction:  ActionEndBreak,
			CanEndBreak: breakElapsed >= pol.MinimumBreak,
			StatusLabel: "On Break",
			ShowControl: true,
		}
	case model.StatusBreakEnded:
		return Resolution{NextAction: ActionCheckOut, StatusLabel: "Break Ended", ShowControl: true}
	case model.StatusCheckedOut:
		return Resolution{NextAction: ActionComplete, StatusLabel: "Checked Out", ShowControl: !pol.HideWhenComplete}
	}
	return Resolution{NextAction: ActionComplete, StatusLabel: string(status)}
}
