package penalty

import (
	"context"
	"errors"
	"time"

	"campuspark/pkg/logger"
	"campuspark/pkg/obs"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrBookingNotFound = errors.New("booking not found")

// BookingRecord is the booking data the engine reads
type BookingRecord struct {
	ID            string
	UserID        string
	Date          string
	TimeIn        string
	TimeOut       string
	Status        string
	ZoneName      string
	SlotLabel     string
	HasRemovedCar bool
	CarRemovedAt  *time.Time
}

// BookingStore is implemented by the bookings package
type BookingStore interface {
	GetBookingRecord(ctx context.Context, bookingID string) (*BookingRecord, error)
	// CompleteBooking marks the booking completed and releases its slot
	CompleteBooking(ctx context.Context, bookingID string, removedAt time.Time, finalPenalty int) error
}

// AccountView is an account plus the state derived from it
type AccountView struct {
	Account
	Phase            Phase `json:"phase"`
	HasActiveSession bool  `json:"has_active_session"`
	SyncPending      bool  `json:"sync_pending"`
}

func newAccountView(acc Account, syncPending bool) *AccountView {
	return &AccountView{
		Account:          acc,
		Phase:            acc.Phase(),
		HasActiveSession: acc.HasActiveSession(),
		SyncPending:      syncPending,
	}
}

type Service interface {
	GetAccount(ctx context.Context, userID string) (*AccountView, error)
	StartSession(ctx context.Context, userID string) (*AccountView, error)
	MarkCarRemoved(ctx context.Context, userID, bookingID string) (*AccountView, error)
	ConfirmPayment(ctx context.Context, userID string) (*AccountView, error)
	GetStatus(ctx context.Context, userID, bookingID string) (*Status, error)
	Subscribe(userID string) (<-chan Event, func(), error)

	// EnsureScheduled fails unless the user's session for bookingID is
	// SCHEDULED; action names the caller's operation in the error
	EnsureScheduled(ctx context.Context, userID, bookingID, action string) error
	// CloseSession finishes a cancelled session and stops its runner
	CloseSession(ctx context.Context, userID, bookingID string) error
	// ReleaseSession flushes and stops the user's runner. On a failed flush
	// the runner keeps running and the PersistenceWriteError is returned.
	ReleaseSession(ctx context.Context, userID string) error
}

type service struct {
	repo       Repository
	supervisor *Supervisor
	bookings   BookingStore
	broker     *Broker
	clock      func() time.Time
	tracer     trace.Tracer
}

func NewService(repo Repository, supervisor *Supervisor, bookings BookingStore, broker *Broker) Service {
	return &service{
		repo:       repo,
		supervisor: supervisor,
		bookings:   bookings,
		broker:     broker,
		clock:      time.Now,
		tracer:     obs.Tracer("campuspark/internal/penalty"),
	}
}

func (s *service) GetAccount(ctx context.Context, userID string) (*AccountView, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}

	if r, ok := s.supervisor.Runner(userID); ok {
		acc := r.Session().Snapshot()
		pending := r.SyncPending()
		if acc.Phase().IsTerminal() && !pending {
			if err := s.supervisor.Stop(ctx, userID); err != nil {
				pending = true
			}
		}
		return newAccountView(acc, pending), nil
	}

	acc, err := s.repo.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newAccountView(*acc, false), nil
}

func (s *service) StartSession(ctx context.Context, userID string) (*AccountView, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}
	ctx, span := s.tracer.Start(ctx, "penalty.StartSession", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	acc, err := s.repo.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, recordErr(span, err)
	}
	if !acc.HasActiveSession() {
		return nil, ErrNoActiveSession
	}

	r, err := s.supervisor.Resume(*acc)
	if err != nil {
		return nil, recordErr(span, err)
	}
	return newAccountView(r.Session().Snapshot(), r.SyncPending()), nil
}

func (s *service) MarkCarRemoved(ctx context.Context, userID, bookingID string) (*AccountView, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}
	ctx, span := s.tracer.Start(ctx, "penalty.MarkCarRemoved", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("booking.id", bookingID),
	))
	defer span.End()

	r, err := s.runnerFor(ctx, userID, "mark car removed")
	if err != nil {
		return nil, recordErr(span, err)
	}
	if bookingID != "" && bookingID != r.Session().BookingID() {
		return nil, ErrBookingMismatch
	}

	acc, err := r.MarkCarRemoved()
	if err != nil {
		return nil, recordErr(span, err)
	}
	span.SetAttributes(attribute.Int("penalty.amount", acc.PenaltyAmount), attribute.String("penalty.phase", string(acc.Phase())))

	view := newAccountView(acc, false)
	if err := s.bookings.CompleteBooking(ctx, acc.CurrentBookingID, acc.CarRemovedAt.Time, acc.PenaltyAmount); err != nil {
		logger.GetDefault().WithUserID(userID).WithError(err).Error("failed to complete booking after car removal")
		view.SyncPending = true
	}
	view.SyncPending = s.settle(ctx, r) || view.SyncPending
	return view, nil
}

func (s *service) ConfirmPayment(ctx context.Context, userID string) (*AccountView, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}
	ctx, span := s.tracer.Start(ctx, "penalty.ConfirmPayment", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	r, err := s.runnerFor(ctx, userID, "confirm payment")
	if err != nil {
		return nil, recordErr(span, err)
	}

	acc, err := r.ConfirmPayment()
	if err != nil {
		return nil, recordErr(span, err)
	}
	logger.GetDefault().LogPaymentConfirmed(ctx, userID, acc.CurrentBookingID, acc.PenaltyAmount)

	view := newAccountView(acc, false)
	view.SyncPending = s.settle(ctx, r)
	return view, nil
}

// settle flushes r and stops it once terminal. It reports whether the write
// is still pending; a pending terminal runner keeps retrying in the background.
func (s *service) settle(ctx context.Context, r *Runner) bool {
	if err := r.Flush(ctx); err != nil {
		return true
	}
	if r.Session().Phase().IsTerminal() {
		if err := s.supervisor.Stop(ctx, r.Session().UserID()); err != nil {
			return true
		}
	}
	return false
}

func (s *service) GetStatus(ctx context.Context, userID, bookingID string) (*Status, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}
	ctx, span := s.tracer.Start(ctx, "penalty.GetStatus", trace.WithAttributes(attribute.String("booking.id", bookingID)))
	defer span.End()

	rec, err := s.bookings.GetBookingRecord(ctx, bookingID)
	if err != nil {
		return nil, recordErr(span, err)
	}
	if rec.UserID != userID {
		return nil, ErrBookingNotFound
	}

	end, err := ScheduledEnd(rec.Date, rec.TimeOut, s.supervisor.Location())
	if err != nil {
		return nil, recordErr(span, err)
	}

	now := s.clock()
	if rec.CarRemovedAt != nil {
		now = *rec.CarRemovedAt
	}
	st := GetStatus(end, now)
	return &st, nil
}

func (s *service) Subscribe(userID string) (<-chan Event, func(), error) {
	if userID == "" {
		return nil, nil, ErrAuthenticationRequired
	}
	ch, cancel := s.broker.Subscribe(userID)
	return ch, cancel, nil
}

func (s *service) EnsureScheduled(ctx context.Context, userID, bookingID, action string) error {
	if userID == "" {
		return ErrAuthenticationRequired
	}
	r, err := s.runnerFor(ctx, userID, action)
	if err != nil {
		if errors.Is(err, ErrNoActiveSession) {
			// no stored session means nothing has started
			return nil
		}
		return err
	}
	if r.Session().BookingID() != bookingID {
		return ErrBookingMismatch
	}

	r.step(s.clock())
	if phase := r.Session().Phase(); phase != PhaseScheduled {
		return &InvalidTransitionError{Action: action, Phase: phase}
	}
	return nil
}

func (s *service) CloseSession(ctx context.Context, userID, bookingID string) error {
	r, ok := s.supervisor.Runner(userID)
	if !ok || r.Session().BookingID() != bookingID {
		return nil
	}
	if _, err := r.Cancel(); err != nil {
		logger.GetDefault().WithUserID(userID).WithError(err).Warn("session moved on before cancellation")
		s.supervisor.Abandon(userID)
		return err
	}
	return s.supervisor.Stop(ctx, userID)
}

func (s *service) ReleaseSession(ctx context.Context, userID string) error {
	return s.supervisor.Stop(ctx, userID)
}

// runnerFor returns the live runner, resuming from storage if needed. A
// stored session that is already complete rejects action.
func (s *service) runnerFor(ctx context.Context, userID, action string) (*Runner, error) {
	if r, ok := s.supervisor.Runner(userID); ok {
		return r, nil
	}

	acc, err := s.repo.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	if phase := acc.Phase(); phase.IsTerminal() {
		return nil, &InvalidTransitionError{Action: action, Phase: phase}
	}
	return s.supervisor.Resume(*acc)
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
