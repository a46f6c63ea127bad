package shift

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicopkrauss/talenttracker/model"
)

type persistCall struct {
	shiftID uuid.UUID
	action  Action
	at      time.Time
}

type mockPersister struct {
	mu       sync.Mutex
	calls    []persistCall
	failWith error
	fetched  *model.ShiftRecord
	fetchErr error

	// release, when non-nil, makes PerformTransition block until it is
	// closed.
	release chan struct{}
}

func (m *mockPersister) PerformTransition(ctx context.Context, shiftID uuid.UUID, action Action, at time.Time) error {
	m.mu.Lock()
	m.calls = append(m.calls, persistCall{shiftID: shiftID, action: action, at: at})
	release := m.release
	err := m.failWith
	m.mu.Unlock()

	if release != nil {
		<-release
	}
	return err
}

func (m *mockPersister) FetchShift(ctx context.Context, shiftID uuid.UUID) (*model.ShiftRecord, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	rec := *m.fetched
	return &rec, nil
}

func (m *mockPersister) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// fixedClock advances only when told to.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(t time.Time) *fixedClock { return &fixedClock{now: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(status model.ShiftStatus, p TransitionPersister, clock Clock) *Store {
	rec := model.ShiftRecord{
		ID:       uuid.New(),
		WorkerID: uuid.New(),
		Status:   status,
	}
	return NewStore(rec, p, clock)
}

func TestStoreLegalSequence(t *testing.T) {
	p := &mockPersister{}
	clock := newFixedClock(baseTime)
	s := newTestStore(model.StatusNotStarted, p, clock)
	ctx := context.Background()

	require.NoError(t, s.CheckIn(ctx))
	assert.Equal(t, model.StatusCheckedIn, s.Status())
	require.NotNil(t, s.Record().CheckInTime)
	assert.Equal(t, baseTime, *s.Record().CheckInTime)

	clock.Advance(4 * time.Hour)
	require.NoError(t, s.StartBreak(ctx))
	assert.Equal(t, model.StatusOnBreak, s.Status())

	clock.Advance(30 * time.Minute)
	require.NoError(t, s.EndBreak(ctx))
	assert.Equal(t, model.StatusBreakEnded, s.Status())

	clock.Advance(4 * time.Hour)
	require.NoError(t, s.CheckOut(ctx))
	assert.Equal(t, model.StatusCheckedOut, s.Status())

	rec := s.Record()
	require.NotNil(t, rec.CheckOutTime)
	assert.Equal(t, 4, p.callCount())

	// Timestamps are monotonically non-decreasing.
	assert.False(t, rec.BreakStartTime.Before(*rec.CheckInTime))
	assert.False(t, rec.BreakEndTime.Before(*rec.BreakStartTime))
	assert.False(t, rec.CheckOutTime.Before(*rec.BreakEndTime))
}

func TestStoreCheckOutWithoutBreak(t *testing.T) {
	p := &mockPersister{}
	s := newTestStore(model.StatusCheckedIn, p, newFixedClock(baseTime))

	require.NoError(t, s.CheckOut(context.Background()))
	rec := s.Record()
	assert.Equal(t, model.StatusCheckedOut, rec.Status)
	assert.Nil(t, rec.BreakStartTime)
	assert.Nil(t, rec.BreakEndTime)
}

func TestStoreIllegalTransitions(t *testing.T) {
	tests := []struct {
		name   string
		status model.ShiftStatus
		op     func(*Store, context.Context) error
	}{
		{"Check in twice", model.StatusCheckedIn, (*Store).CheckIn},
		{"Break before check-in", model.StatusNotStarted, (*Store).StartBreak},
		{"End break while checked in", model.StatusCheckedIn, (*Store).EndBreak},
		{"Check out while on break", model.StatusOnBreak, (*Store).CheckOut},
		{"Check out before check-in", model.StatusNotStarted, (*Store).CheckOut},
		{"Second break", model.StatusBreakEnded, (*Store).StartBreak},
		{"Check in after check-out", model.StatusCheckedOut, (*Store).CheckIn},
		{"Check out twice", model.StatusCheckedOut, (*Store).CheckOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mockPersister{}
			s := newTestStore(tt.status, p, newFixedClock(baseTime))

			err := tt.op(s, context.Background())
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.status, s.Status())
			// Rejected before any network call.
			assert.Zero(t, p.callCount())
		})
	}
}

func TestStorePersistenceFailureLeavesStateUnchanged(t *testing.T) {
	p := &mockPersister{failWith: errors.New("conflict")}
	s := newTestStore(model.StatusBreakEnded, p, newFixedClock(baseTime))

	err := s.CheckOut(context.Background())

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "conflict", pe.Reason)
	assert.Equal(t, ActionCheckOut, pe.Action)

	rec := s.Record()
	assert.Equal(t, model.StatusBreakEnded, rec.Status)
	assert.Nil(t, rec.CheckOutTime)
	assert.Equal(t, 1, p.callCount())
}

func TestStoreDiscardsResultAfterCancel(t *testing.T) {
	p := &mockPersister{}
	s := newTestStore(model.StatusNotStarted, p, newFixedClock(baseTime))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.CheckIn(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, model.StatusNotStarted, s.Status())
}

func TestStoreRefresh(t *testing.T) {
	p := &mockPersister{}
	clock := newFixedClock(baseTime)
	s := newTestStore(model.StatusCheckedIn, p, clock)

	t.Run("In sync", func(t *testing.T) {
		rec := s.Record()
		p.fetched = &rec
		assert.NoError(t, s.Refresh(context.Background()))
		assert.Equal(t, model.StatusCheckedIn, s.Status())
	})

	t.Run("Stale adopts server record", func(t *testing.T) {
		server := s.Record()
		server.Status = model.StatusCheckedOut
		out := baseTime.Add(8 * time.Hour)
		server.CheckOutTime = &out
		p.fetched = &server

		err := s.Refresh(context.Background())
		assert.ErrorIs(t, err, ErrStaleState)
		assert.Equal(t, model.StatusCheckedOut, s.Status())
		require.NotNil(t, s.Record().CheckOutTime)
	})

	t.Run("Fetch failure", func(t *testing.T) {
		p.fetchErr = errors.New("gone")
		assert.Error(t, s.Refresh(context.Background()))
		p.fetchErr = nil
	})
}

func TestNextStatus(t *testing.T) {
	_, ok := NextStatus(model.StatusCheckedOut, ActionCheckIn)
	assert.False(t, ok)

	next, ok := NextStatus(model.StatusCheckedIn, ActionCheckOut)
	assert.True(t, ok)
	assert.Equal(t, model.StatusCheckedOut, next)
}

func TestStoreApplyUnknownAction(t *testing.T) {
	p := &mockPersister{}
	s := newTestStore(model.StatusNotStarted, p, newFixedClock(baseTime))

	err := s.Apply(context.Background(), Action("sleep"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, p.callCount())
}
