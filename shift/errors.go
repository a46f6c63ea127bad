package shift

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition means the requested action is not legal for the
	// current status. It is raised before any persistence call is attempted.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrStaleState means the local status diverged from a freshly fetched
	// server status. The server record has already been adopted.
	ErrStaleState = errors.New("stale shift state")

	// ErrBusy means another transition is still in flight. The call was a
	// no-op: no state changed and nothing was queued.
	ErrBusy = errors.New("transition already in flight")

	// ErrClosed means the tracker was torn down; the result of any
	// outstanding transition is discarded without mutating state.
	ErrClosed = errors.New("tracker closed")
)

// PersistenceError wraps a failed or rejected persistence call. The local
// record is left unchanged and the same action may be retried.
type PersistenceError struct {
	Action Action
	Reason string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %s", e.Action, e.Reason)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
