package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nicopkrauss/talenttracker/model"
)

func tp(t time.Time) *time.Time { return &t }

func TestValidateOrdering(t *testing.T) {
	base := time.Date(2025, 8, 30, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rec     model.ShiftRecord
		wantErr bool
	}{
		{
			name: "Full ordered shift",
			rec: model.ShiftRecord{
				CheckInTime:    tp(base),
				BreakStartTime: tp(base.Add(4 * time.Hour)),
				BreakEndTime:   tp(base.Add(4*time.Hour + 30*time.Minute)),
				CheckOutTime:   tp(base.Add(9 * time.Hour)),
			},
		},
		{
			name: "No break",
			rec: model.ShiftRecord{
				CheckInTime:  tp(base),
				CheckOutTime: tp(base.Add(8 * time.Hour)),
			},
		},
		{
			name: "Equal timestamps allowed",
			rec: model.ShiftRecord{
				CheckInTime:    tp(base),
				BreakStartTime: tp(base),
				BreakEndTime:   tp(base),
			},
		},
		{
			name: "Break end before break start",
			rec: model.ShiftRecord{
				CheckInTime:    tp(base),
				BreakStartTime: tp(base.Add(4 * time.Hour)),
				BreakEndTime:   tp(base.Add(3 * time.Hour)),
			},
			wantErr: true,
		},
		{
			name: "Check out before check in",
			rec: model.ShiftRecord{
				CheckInTime:  tp(base),
				CheckOutTime: tp(base.Add(-time.Hour)),
			},
			wantErr: true,
		},
		{
			name: "Break without check-in",
			rec: model.ShiftRecord{
				BreakStartTime: tp(base),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOrdering(&tt.rec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePresence(t *testing.T) {
	base := time.Date(2025, 8, 30, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rec     model.ShiftRecord
		wantErr bool
	}{
		{
			name: "Checked in with only check-in time",
			rec: model.ShiftRecord{
				Status:      model.StatusCheckedIn,
				CheckInTime: tp(base),
			},
		},
		{
			name: "Checked out without a break",
			rec: model.ShiftRecord{
				Status:       model.StatusCheckedOut,
				CheckInTime:  tp(base),
				CheckOutTime: tp(base.Add(8 * time.Hour)),
			},
		},
		{
			name: "Break ended with full break pair",
			rec: model.ShiftRecord{
				Status:         model.StatusBreakEnded,
				CheckInTime:    tp(base),
				BreakStartTime: tp(base.Add(4 * time.Hour)),
				BreakEndTime:   tp(base.Add(4*time.Hour + 30*time.Minute)),
			},
		},
		{
			name: "Break end without break start",
			rec: model.ShiftRecord{
				Status:       model.StatusCheckedIn,
				CheckInTime:  tp(base),
				BreakEndTime: tp(base.Add(5 * time.Hour)),
			},
			wantErr: true,
		},
		{
			name: "Check-out time while still checked in",
			rec: model.ShiftRecord{
				Status:       model.StatusCheckedIn,
				CheckInTime:  tp(base),
				CheckOutTime: tp(base.Add(8 * time.Hour)),
			},
			wantErr: true,
		},
		{
			name: "Checked out without check-out time",
			rec: model.ShiftRecord{
				Status:      model.StatusCheckedOut,
				CheckInTime: tp(base),
			},
			wantErr: true,
		},
		{
			name: "Break end set while on break",
			rec: model.ShiftRecord{
				Status:         model.StatusOnBreak,
				CheckInTime:    tp(base),
				BreakStartTime: tp(base.Add(4 * time.Hour)),
				BreakEndTime:   tp(base.Add(5 * time.Hour)),
			},
			wantErr: true,
		},
		{
			name: "Checked out with half a break pair",
			rec: model.ShiftRecord{
				Status:         model.StatusCheckedOut,
				CheckInTime:    tp(base),
				BreakStartTime: tp(base.Add(4 * time.Hour)),
				CheckOutTime:   tp(base.Add(8 * time.Hour)),
			},
			wantErr: true,
		},
		{
			name: "Check-in cleared on a checked-in shift",
			rec: model.ShiftRecord{
				Status: model.StatusCheckedIn,
			},
			wantErr: true,
		},
		{
			name: "Not started with no timestamps",
			rec: model.ShiftRecord{
				Status: model.StatusNotStarted,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePresence(&tt.rec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyTimeEdits(t *testing.T) {
	base := time.Date(2025, 8, 30, 8, 0, 0, 0, time.UTC)

	t.Run("Same value is a no-op", func(t *testing.T) {
		rec := model.ShiftRecord{CheckInTime: tp(base)}
		changes := applyTimeEdits(&rec, TimeEdits{CheckInTime: tp(base)})
		assert.Empty(t, changes)
	})

	t.Run("Changed value is recorded", func(t *testing.T) {
		rec := model.ShiftRecord{CheckInTime: tp(base)}
		changes := applyTimeEdits(&rec, TimeEdits{CheckInTime: tp(base.Add(15 * time.Minute))})
		assert.Len(t, changes, 1)
		assert.Equal(t, "check_in_time", changes[0].column)
		assert.Equal(t, base.Add(15*time.Minute), *rec.CheckInTime)
	})

	t.Run("Zero time clears the field", func(t *testing.T) {
		rec := model.ShiftRecord{CheckInTime: tp(base), BreakStartTime: tp(base.Add(4 * time.Hour))}
		changes := applyTimeEdits(&rec, TimeEdits{BreakStartTime: &time.Time{}})
		assert.Len(t, changes, 1)
		assert.Equal(t, "break_start_time", changes[0].column)
		assert.Nil(t, changes[0].new)
		assert.Nil(t, rec.BreakStartTime)
	})

	t.Run("Clearing an empty field is a no-op", func(t *testing.T) {
		rec := model.ShiftRecord{CheckInTime: tp(base)}
		changes := applyTimeEdits(&rec, TimeEdits{BreakEndTime: &time.Time{}})
		assert.Empty(t, changes)
	})

	t.Run("Nil leaves the field alone", func(t *testing.T) {
		rec := model.ShiftRecord{CheckInTime: tp(base)}
		changes := applyTimeEdits(&rec, TimeEdits{})
		assert.Empty(t, changes)
		assert.Equal(t, base, *rec.CheckInTime)
	})
}
