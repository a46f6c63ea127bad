package shift

import (
	"context"
	"errors"
	"sync"

	"github.com/nicopkrauss/talenttracker/model"
)

// Callbacks are the host notifications. Both are fire-and-forget and may be
// nil.
type Callbacks struct {
	// OnStateChange is invoked with the new status after every successful
	// transition.
	OnStateChange func(model.ShiftStatus)
	// OnShiftLimitExceeded is invoked the first time the shift crosses the
	// overtime threshold, at most once per shift.
	OnShiftLimitExceeded func()
}

// Snapshot is everything the host view needs to render.
type Snapshot struct {
	Record     model.ShiftRecord `json:"record"`
	Derived    DerivedState      `json:"derived"`
	Resolution Resolution        `json:"resolution"`
	Loading    bool              `json:"loading"`
	Err        string            `json:"error,omitempty"`
}

// Tracker composes the store, clock and resolver and owns the async
// lifecycle of transitions: exactly one may be in flight, further requests
// are rejected rather than queued, and results arriving after Close are
// discarded.
type Tracker struct {
	store  *Store
	clock  Clock
	policy Policy
	cb     Callbacks

	mu             sync.Mutex
	inFlight       bool
	closed         bool
	lastErr        string
	overtimeFired  bool
	cancelInFlight context.CancelFunc
}

func NewTracker(store *Store, clock Clock, policy Policy, cb Callbacks) *Tracker {
	if clock == nil {
		clock = SystemClock()
	}
	return &Tracker{
		store:  store,
		clock:  clock,
		policy: policy,
		cb:     cb,
	}
}

// Loading reports whether a transition's persistence call is outstanding.
func (t *Tracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}

// Err returns the last transition failure message. It is cleared at the
// start of the next attempted transition.
func (t *Tracker) Err() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

func (t *Tracker) CheckIn(ctx context.Context) error    { return t.transition(ctx, ActionCheckIn) }
func (t *Tracker) StartBreak(ctx context.Context) error { return t.transition(ctx, ActionStartBreak) }
func (t *Tracker) EndBreak(ctx context.Context) error   { return t.transition(ctx, ActionEndBreak) }
func (t *Tracker) CheckOut(ctx context.Context) error   { return t.transition(ctx, ActionCheckOut) }

// Apply runs a wire-named action through the in-flight guard.
func (t *Tracker) Apply(ctx context.Context, action Action) error {
	return t.transition(ctx, action)
}

func (t *Tracker) transition(ctx context.Context, action Action) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	if t.inFlight {
		// No-op, not queued: rapid repeated triggers must not double-submit.
		t.mu.Unlock()
		return ErrBusy
	}
	// Tie the call to the tracker lifetime: Close cancels this context
	// synchronously, so a teardown mid-flight discards the result instead of
	// mutating a disposed tracker.
	ctx, cancel := context.WithCancel(ctx)
	t.inFlight = true
	t.cancelInFlight = cancel
	t.lastErr = ""
	t.mu.Unlock()
	defer cancel()

	err := t.store.Apply(ctx, action)

	t.mu.Lock()
	t.inFlight = false
	t.cancelInFlight = nil
	if err == nil && t.closed {
		// Close raced the persistence verdict; treat the result as discarded.
		err = ErrClosed
	}
	if err != nil {
		if !errors.Is(err, ErrClosed) {
			t.lastErr = failureMessage(err)
		}
		t.mu.Unlock()
		return err
	}
	status := t.store.Status()
	if status == model.StatusCheckedIn {
		// New shift underway: re-arm the one-shot overtime alert.
		t.overtimeFired = false
	}
	t.mu.Unlock()

	if t.cb.OnStateChange != nil {
		t.cb.OnStateChange(status)
	}
	t.Tick()
	return nil
}

func failureMessage(err error) string {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return err.Error()
}

// Tick recomputes the derived state against wall-clock time and fires the
// overtime alert the first time the threshold is crossed. It is read-only
// with respect to the shift record and safe to call from a render loop.
func (t *Tracker) Tick() DerivedState {
	rec := t.store.Record()
	d := Derive(&rec, t.policy, t.clock.Now())

	fire := false
	t.mu.Lock()
	if d.Overtime && !t.overtimeFired && !t.closed {
		t.overtimeFired = true
		fire = true
	}
	t.mu.Unlock()

	if fire && t.cb.OnShiftLimitExceeded != nil {
		t.cb.OnShiftLimitExceeded()
	}
	return d
}

// Snapshot returns the current state for rendering: record, derived
// quantities, the resolved next action, and the async flags.
func (t *Tracker) Snapshot() Snapshot {
	d := t.Tick()
	rec := t.store.Record()

	t.mu.Lock()
	loading := t.inFlight
	lastErr := t.lastErr
	t.mu.Unlock()

	return Snapshot{
		Record:     rec,
		Derived:    d,
		Resolution: Resolve(rec.Status, d.BreakElapsed, t.policy),
		Loading:    loading,
		Err:        lastErr,
	}
}

// Refresh re-fetches the server record through the store. An ErrStaleState
// result still leaves the tracker holding the adopted server record.
func (t *Tracker) Refresh(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	t.mu.Unlock()
	return t.store.Refresh(ctx)
}

// Close tears the tracker down. Any outstanding transition result is
// discarded and all further calls return ErrClosed.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	cancel := t.cancelInFlight
	t.mu.Unlock()
	if cancel != nil {
		// Synchronous: once Close returns, the in-flight context already
		// reports canceled and the store will not apply the verdict.
		cancel()
	}
}
