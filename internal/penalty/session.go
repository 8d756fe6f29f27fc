package penalty

import (
	"sync"
	"time"

	"gopkg.in/guregu/null.v4"
)

// Session owns one user's account value and serializes every mutation, so
// a tick always observes the latest car_removed and is_paid flags.
type Session struct {
	mu       sync.Mutex
	acc      Account
	end      time.Time
	strategy Strategy
	version  uint64
}

// NewSession builds a session for acc. It fails with ConfigurationError when
// the stored date and end time cannot be resolved.
func NewSession(acc Account, loc *time.Location, strategy Strategy) (*Session, error) {
	end, err := ScheduledEnd(acc.BookingDate, acc.BookingEndTime, loc)
	if err != nil {
		return nil, err
	}
	if strategy == nil {
		strategy = LiveSession{}
	}
	return &Session{acc: acc, end: end, strategy: strategy}, nil
}

func (s *Session) Snapshot() Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acc
}

// Version increases on every state change
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acc.Phase()
}

func (s *Session) End() time.Time {
	return s.end
}

func (s *Session) UserID() string {
	return s.acc.UserID
}

func (s *Session) BookingID() string {
	return s.acc.CurrentBookingID
}

// Tick advances the session to now: SCHEDULED becomes OVERTIME once the end
// has passed, and an overtime penalty only ever grows.
func (s *Session) Tick(now time.Time) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked(now)
}

func (s *Session) tickLocked(now time.Time) []Event {
	phase := s.acc.Phase()
	if phase != PhaseScheduled && phase != PhaseOvertime {
		return nil
	}
	if now.Before(s.end) {
		return nil
	}

	var events []Event
	changed := false

	if phase == PhaseScheduled {
		s.acc.IsInOvertime = true
		changed = true
		events = append(events, newEvent(EventTimeExpired, &s.acc, now))
		e := newEvent(EventPhaseChanged, &s.acc, now)
		e.From, e.To = PhaseScheduled, PhaseOvertime
		events = append(events, e)
	}

	a := s.strategy.Assess(s.end, now)
	if a.MinutesLate > s.acc.OvertimeMinutes {
		s.acc.OvertimeMinutes = a.MinutesLate
		changed = true
	}
	if a.Amount > s.acc.PenaltyAmount {
		s.acc.PenaltyAmount = a.Amount
		changed = true
		events = append(events, newEvent(EventPenaltyAccrued, &s.acc, now))
	}

	if changed {
		s.touch(now)
	}
	return events
}

// MarkCarRemoved applies a final tick at now, then freezes the penalty. With
// nothing owed the session completes immediately.
func (s *Session) MarkCarRemoved(now time.Time) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if phase := s.acc.Phase(); phase != PhaseScheduled && phase != PhaseOvertime {
		return nil, &InvalidTransitionError{Action: "mark car removed", Phase: phase}
	}

	events := s.tickLocked(now)
	from := s.acc.Phase()

	s.acc.CarRemoved = true
	s.acc.CarRemovedAt = null.TimeFrom(now)
	if s.acc.PenaltyAmount == 0 {
		s.acc.IsPaid = true
		s.acc.HasCompletedBooking = true
		s.acc.IsSessionActive = false
		s.acc.IsInOvertime = false
		s.acc.FinalAmount = null.IntFrom(0)
	}
	s.touch(now)

	e := newEvent(EventPhaseChanged, &s.acc, now)
	e.From, e.To = from, s.acc.Phase()
	return append(events, e), nil
}

// ConfirmPayment settles a removed, unpaid session. Any other phase is
// rejected so a completed session can never be charged twice.
func (s *Session) ConfirmPayment(now time.Time) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.acc.Phase()
	if from != PhaseRemovedUnpaid {
		return nil, &InvalidTransitionError{Action: "confirm payment", Phase: from}
	}

	s.acc.IsPaid = true
	s.acc.HasCompletedBooking = true
	s.acc.IsSessionActive = false
	s.acc.IsInOvertime = false
	s.acc.PaymentCompletedAt = null.TimeFrom(now)
	s.acc.FinalAmount = null.IntFrom(int64(s.acc.PenaltyAmount))
	s.touch(now)

	e := newEvent(EventPhaseChanged, &s.acc, now)
	e.From, e.To = from, PhaseComplete
	return []Event{e}, nil
}

// Cancel closes a session that has not reached its end time
func (s *Session) Cancel(now time.Time) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.tickLocked(now)
	from := s.acc.Phase()
	if from != PhaseScheduled {
		return events, &InvalidTransitionError{Action: "cancel booking", Phase: from}
	}

	s.acc.IsSessionActive = false
	s.touch(now)

	e := newEvent(EventPhaseChanged, &s.acc, now)
	e.From, e.To = from, s.acc.Phase()
	return append(events, e), nil
}

func (s *Session) touch(now time.Time) {
	s.acc.LastUpdated = now
	s.version++
}

func (s *Session) snapshotVersion() (Account, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acc, s.version
}
