package shift

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nicopkrauss/talenttracker/model"
)

// TransitionPersister is the external persistence collaborator. It is the
// single source of truth for whether a transition took effect; conflicting
// edits from another device come back as an error from PerformTransition.
type TransitionPersister interface {
	PerformTransition(ctx context.Context, shiftID uuid.UUID, action Action, at time.Time) error
	FetchShift(ctx context.Context, shiftID uuid.UUID) (*model.ShiftRecord, error)
}

// transitions holds the only legal edges of the shift state machine.
var transitions = map[model.ShiftStatus]map[Action]model.ShiftStatus{
	model.StatusNotStarted: {ActionCheckIn: model.StatusCheckedIn},
	model.StatusCheckedIn: {
		ActionStartBreak: model.StatusOnBreak,
		ActionCheckOut:   model.StatusCheckedOut,
	},
	model.StatusOnBreak:    {ActionEndBreak: model.StatusBreakEnded},
	model.StatusBreakEnded: {ActionCheckOut: model.StatusCheckedOut},
	// checked_out is terminal
}

// NextStatus returns the status reached by applying action from, and whether
// that edge exists.
func NextStatus(from model.ShiftStatus, action Action) (model.ShiftStatus, bool) {
	to, ok := transitions[from][action]
	return to, ok
}

// Store holds one shift record and mutates it only through the four
// transition operations, each confirmed by the persistence collaborator
// before being applied locally. All invariants on the record's timestamps are
// enforced here and nowhere else.
type Store struct {
	mu        sync.Mutex
	rec       model.ShiftRecord
	persister TransitionPersister
	clock     Clock
}

func NewStore(rec model.ShiftRecord, persister TransitionPersister, clock Clock) *Store {
	if clock == nil {
		clock = SystemClock()
	}
	return &Store{rec: rec, persister: persister, clock: clock}
}

// Record returns a copy of the current shift record.
func (s *Store) Record() model.ShiftRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec
}

func (s *Store) Status() model.ShiftStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Status
}

func (s *Store) CheckIn(ctx context.Context) error    { return s.transition(ctx, ActionCheckIn) }
func (s *Store) StartBreak(ctx context.Context) error { return s.transition(ctx, ActionStartBreak) }
func (s *Store) EndBreak(ctx context.Context) error   { return s.transition(ctx, ActionEndBreak) }
func (s *Store) CheckOut(ctx context.Context) error   { return s.transition(ctx, ActionCheckOut) }

// Apply runs Action by name. Used by callers that receive the action off the
// wire.
func (s *Store) Apply(ctx context.Context, action Action) error {
	switch action {
	case ActionCheckIn, ActionStartBreak, ActionEndBreak, ActionCheckOut:
		return s.transition(ctx, action)
	}
	return fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
}

func (s *Store) transition(ctx context.Context, action Action) error {
	s.mu.Lock()
	from := s.rec.Status
	id := s.rec.ID
	s.mu.Unlock()

	next, ok := NextStatus(from, action)
	if !ok {
		// Rejected before any network call.
		return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, action, from)
	}

	at := s.clock.Now()
	if err := s.persister.PerformTransition(ctx, id, action, at); err != nil {
		return &PersistenceError{Action: action, Reason: err.Error(), Err: err}
	}

	// The caller was torn down while the call was outstanding: the server
	// verdict stands but the local record must not change.
	if err := ctx.Err(); err != nil {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Status = next
	switch action {
	case ActionCheckIn:
		s.rec.CheckInTime = &at
	case ActionStartBreak:
		s.rec.BreakStartTime = &at
	case ActionEndBreak:
		s.rec.BreakEndTime = &at
	case ActionCheckOut:
		s.rec.CheckOutTime = &at
	}
	return nil
}

// Refresh fetches the server record and adopts it. If the server status had
// diverged from the local one the adopted record is kept and ErrStaleState is
// returned so the caller can re-render.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	id := s.rec.ID
	local := s.rec.Status
	s.mu.Unlock()

	fetched, err := s.persister.FetchShift(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch shift %s: %w", id, err)
	}

	s.mu.Lock()
	s.rec = *fetched
	s.mu.Unlock()

	if fetched.Status != local {
		return fmt.Errorf("%w: local %s, server %s", ErrStaleState, local, fetched.Status)
	}
	return nil
}
