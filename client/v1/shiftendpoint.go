package v1

import (
	"encoding/json"
	"fmt"
	"time"
)

const basePath = "/api/timecard/v1.0"

type ShiftDTO struct {
	ID                 string     `json:"id"`
	WorkerID           string     `json:"workerId"`
	ProjectID          string     `json:"projectId"`
	Role               string     `json:"role"`
	Status             string     `json:"status"`
	CheckInTime        *time.Time `json:"checkInTime,omitempty"`
	BreakStartTime     *time.Time `json:"breakStartTime,omitempty"`
	BreakEndTime       *time.Time `json:"breakEndTime,omitempty"`
	CheckOutTime       *time.Time `json:"checkOutTime,omitempty"`
	ScheduledStartTime time.Time  `json:"scheduledStartTime"`
}

type DerivedDTO struct {
	ShiftHours          float64 `json:"shiftHours"`
	Overtime            bool    `json:"overtime"`
	BreakElapsedMinutes float64 `json:"breakElapsedMinutes"`
}

type ResolutionDTO struct {
	NextAction  string `json:"nextAction"`
	CanEndBreak bool   `json:"canEndBreak"`
	StatusLabel string `json:"statusLabel"`
	ShowControl bool   `json:"showControl"`
}

type SummaryDTO struct {
	Shift      ShiftDTO      `json:"shift"`
	Derived    DerivedDTO    `json:"derived"`
	Resolution ResolutionDTO `json:"resolution"`
	LateStart  bool          `json:"lateStart"`
}

type envelope[T any] struct {
	Data T `json:"data"`
}

type ShiftEndpoint struct {
	transport *Transport
}

// Summary fetches the current timecard summary for a shift.
func (e *ShiftEndpoint) Summary(shiftID string) (*SummaryDTO, error) {
	resp, err := e.transport.Get(fmt.Sprintf("%s/shifts/%s/summary", basePath, shiftID), nil)
	if err != nil {
		return nil, err
	}

	var result envelope[SummaryDTO]
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// Transition applies an action (check_in, start_break, end_break, check_out)
// and returns the refreshed summary.
func (e *ShiftEndpoint) Transition(shiftID, action string) (*SummaryDTO, error) {
	payload := map[string]string{"action": action}

	resp, err := e.transport.Post(fmt.Sprintf("%s/shifts/%s/transitions", basePath, shiftID), payload, nil)
	if err != nil {
		return nil, err
	}

	var result envelope[SummaryDTO]
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}
