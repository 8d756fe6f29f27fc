package penalty

import (
	"errors"
	"fmt"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAccountNotFound        = errors.New("penalty account not found")
	ErrNoActiveSession        = errors.New("no active parking session")
	ErrBookingMismatch        = errors.New("booking does not belong to the active session")
)

// ConfigurationError reports a booking whose date/time cannot be resolved to
// an instant. No timer is started for such a booking.
type ConfigurationError struct {
	Date  string
	Time  string
	Cause error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid booking schedule %q %q: %v", e.Date, e.Time, e.Cause)
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }

// PersistenceWriteError is recoverable: in-memory state stays authoritative
// and the write is retried.
type PersistenceWriteError struct {
	UserID string
	Cause  error
}

func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("failed to persist penalty account for user %s: %v", e.UserID, e.Cause)
}

func (e *PersistenceWriteError) Unwrap() error { return e.Cause }

type InvalidTransitionError struct {
	Action string
	Phase  Phase
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s while session is %s", e.Action, e.Phase)
}
