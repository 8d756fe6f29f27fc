package bookings

import (
	"context"
	"errors"
	"time"

	"campuspark/internal/notifications"
	"campuspark/internal/penalty"
	"campuspark/internal/shared/utils/validation"
	"campuspark/internal/users"
	"campuspark/internal/zones"
	"campuspark/pkg/logger"
	"campuspark/pkg/obs"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Interfaces for cross-package dependencies

// UserDirectory resolves the booking holder's profile
type UserDirectory interface {
	GetUserByID(ctx context.Context, userID string) (*users.User, error)
}

// SlotDirectory is satisfied by zones.Repository
type SlotDirectory interface {
	GetSlot(ctx context.Context, id string) (*zones.Slot, error)
	GetZone(ctx context.Context, id string) (*zones.Zone, error)
}

// SlotCache drops cached slot listings after availability changes
type SlotCache interface {
	InvalidateSlots(ctx context.Context, zoneID string)
}

// LifecycleEngine is the part of penalty.Service bookings drives
type LifecycleEngine interface {
	GetAccount(ctx context.Context, userID string) (*penalty.AccountView, error)
	StartSession(ctx context.Context, userID string) (*penalty.AccountView, error)
	EnsureScheduled(ctx context.Context, userID, bookingID, action string) error
	CloseSession(ctx context.Context, userID, bookingID string) error
	ReleaseSession(ctx context.Context, userID string) error
}

// Notifier is the part of notifications.Service bookings drives
type Notifier interface {
	ScheduleBookingReminders(ctx context.Context, w notifications.BookingWindow) error
	CancelBookingReminders(ctx context.Context, userID, bookingID string) error
}

type Service interface {
	Reserve(ctx context.Context, userID string, req CreateBookingRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, userID, bookingID string) (*BookingResponse, error)
	Reschedule(ctx context.Context, userID, bookingID string, req RescheduleBookingRequest) (*BookingResponse, error)
	Cancel(ctx context.Context, userID, bookingID string) (*BookingResponse, error)
	ListSessions(ctx context.Context, userID string) (*SessionsResponse, error)
	GetReceipt(ctx context.Context, userID, bookingID string) (*ReceiptResponse, error)
	SetSlotCache(cache SlotCache)
}

type service struct {
	repo     Repository
	slots    SlotDirectory
	users    UserDirectory
	engine   LifecycleEngine
	notifier Notifier
	cache    SlotCache

	loc      *time.Location
	clock    func() time.Time
	validate *validator.Validate
	tracer   trace.Tracer
}

func NewService(repo Repository, slots SlotDirectory, userDir UserDirectory, engine LifecycleEngine, notifier Notifier, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:     repo,
		slots:    slots,
		users:    userDir,
		engine:   engine,
		notifier: notifier,
		loc:      loc,
		clock:    time.Now,
		validate: validation.New(),
		tracer:   obs.Tracer("campuspark/internal/bookings"),
	}
}

// SetSlotCache enables slot listing invalidation
func (s *service) SetSlotCache(cache SlotCache) {
	s.cache = cache
}

func (s *service) Reserve(ctx context.Context, userID string, req CreateBookingRequest) (*BookingResponse, error) {
	if userID == "" {
		return nil, penalty.ErrAuthenticationRequired
	}
	ctx, span := s.tracer.Start(ctx, "bookings.Reserve", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("slot.id", req.SlotID),
	))
	defer span.End()

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, recordErr(span, err)
	}

	slot, err := s.slots.GetSlot(ctx, req.SlotID)
	if err != nil {
		return nil, recordErr(span, err)
	}
	if err := checkBayAccess(user.IsOKU, slot); err != nil {
		return nil, recordErr(span, err)
	}
	zone, err := s.slots.GetZone(ctx, slot.ZoneID)
	if err != nil {
		return nil, recordErr(span, err)
	}

	details, err := s.resolveDetails(user, req)
	if err != nil {
		return nil, recordErr(span, err)
	}

	now := s.clock()
	window, err := ParseWindow(req.Date, req.TimeIn, req.TimeOut, s.loc, now)
	if err != nil {
		return nil, recordErr(span, err)
	}

	if err := s.checkCanBook(ctx, userID); err != nil {
		return nil, recordErr(span, err)
	}

	booking := &Booking{
		ID:              uuid.New(),
		UserID:          userID,
		FullName:        details.FullName,
		StudentID:       details.StudentID,
		CarPlate:        details.CarPlate,
		ZoneID:          zone.ID,
		ZoneName:        zone.Name,
		SlotID:          slot.ID,
		SlotLabel:       slot.Label,
		Date:            window.Date,
		TimeIn:          window.TimeIn,
		TimeOut:         window.TimeOut,
		DurationMinutes: window.Minutes(),
		BayType:         BayTypeFor(slot.IsOKU()),
		Status:          StatusBooked,
	}
	account := penalty.NewSessionAccount(userID, booking.ID.String(), zone.Name, slot.Label, window.Date, window.TimeIn, window.TimeOut, now)

	// The previous runner keeps running until the new account is committed,
	// so an unsynced payment survives a failed reservation.
	if err := s.repo.Reserve(ctx, booking, account); err != nil {
		return nil, recordErr(span, err)
	}
	logger.GetDefault().LogBookingCreated(ctx, booking.ID.String(), slot.ID, userID)

	if err := s.engine.ReleaseSession(ctx, userID); err != nil {
		logger.GetDefault().WithUserID(userID).WithError(err).Warn("previous penalty session not released")
	}

	s.invalidateSlots(ctx, zone.ID)
	s.startSession(ctx, userID)
	s.scheduleReminders(ctx, booking, window)

	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *service) GetBooking(ctx context.Context, userID, bookingID string) (*BookingResponse, error) {
	b, err := s.ownedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	resp := toBookingResponse(b)
	return &resp, nil
}

func (s *service) Reschedule(ctx context.Context, userID, bookingID string, req RescheduleBookingRequest) (*BookingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "bookings.Reschedule", trace.WithAttributes(attribute.String("booking.id", bookingID)))
	defer span.End()

	b, err := s.ownedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, recordErr(span, err)
	}

	now := s.clock()
	if !b.Status.CanReschedule() {
		return nil, recordErr(span, ErrNotReschedulable)
	}
	if current, err := ParseWindow(b.Date, b.TimeIn, b.TimeOut, s.loc, time.Time{}); err == nil && !now.Before(current.Start) {
		return nil, recordErr(span, ErrNotReschedulable)
	}
	if err := s.engine.EnsureScheduled(ctx, userID, bookingID, "reschedule booking"); err != nil {
		return nil, recordErr(span, err)
	}

	window, err := ParseWindow(req.Date, req.TimeIn, req.TimeOut, s.loc, now)
	if err != nil {
		return nil, recordErr(span, err)
	}

	updated := *b
	updated.Date = window.Date
	updated.TimeIn = window.TimeIn
	updated.TimeOut = window.TimeOut
	updated.DurationMinutes = window.Minutes()
	if req.CarPlate != "" {
		updated.CarPlate = validation.NormalizeCarPlate(req.CarPlate)
	}
	account := penalty.NewSessionAccount(userID, bookingID, b.ZoneName, b.SlotLabel, window.Date, window.TimeIn, window.TimeOut, now)

	if err := s.engine.ReleaseSession(ctx, userID); err != nil {
		return nil, recordErr(span, err)
	}
	if err := s.repo.Reschedule(ctx, &updated, account); err != nil {
		// resume the untouched session from storage
		s.startSession(ctx, userID)
		return nil, recordErr(span, err)
	}
	updated.UpdatedAt = now

	s.startSession(ctx, userID)
	if err := s.notifier.CancelBookingReminders(ctx, userID, bookingID); err != nil {
		logger.GetDefault().WithUserID(userID).WithError(err).Warn("failed to cancel reminders for rescheduled booking")
	}
	s.scheduleReminders(ctx, &updated, window)

	resp := toBookingResponse(&updated)
	return &resp, nil
}

func (s *service) Cancel(ctx context.Context, userID, bookingID string) (*BookingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "bookings.Cancel", trace.WithAttributes(attribute.String("booking.id", bookingID)))
	defer span.End()

	b, err := s.ownedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, recordErr(span, err)
	}
	if !b.Status.IsActive() {
		return nil, recordErr(span, ErrBookingClosed)
	}
	if err := s.engine.EnsureScheduled(ctx, userID, bookingID, "cancel booking"); err != nil {
		return nil, recordErr(span, err)
	}

	cancelled, err := s.repo.Cancel(ctx, bookingID)
	if err != nil {
		return nil, recordErr(span, err)
	}
	logger.GetDefault().LogBookingCancelled(ctx, bookingID, cancelled.SlotID, userID)

	if err := s.engine.CloseSession(ctx, userID, bookingID); err != nil {
		logger.GetDefault().WithUserID(userID).WithError(err).Warn("failed to stop session for cancelled booking")
	}
	s.invalidateSlots(ctx, cancelled.ZoneID)
	if err := s.notifier.CancelBookingReminders(ctx, userID, bookingID); err != nil {
		logger.GetDefault().WithUserID(userID).WithError(err).Warn("failed to cancel reminders")
	}

	resp := toBookingResponse(cancelled)
	return &resp, nil
}

func (s *service) ListSessions(ctx context.Context, userID string) (*SessionsResponse, error) {
	if userID == "" {
		return nil, penalty.ErrAuthenticationRequired
	}
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	out := &SessionsResponse{
		Active:  []BookingResponse{},
		History: []BookingResponse{},
	}
	for i := range list {
		b := &list[i]
		if s.isOngoing(b, now) {
			out.Active = append(out.Active, toBookingResponse(b))
		} else {
			out.History = append(out.History, toBookingResponse(b))
		}
	}
	return out, nil
}

// isOngoing is true for bookings still open whose end is in the future
func (s *service) isOngoing(b *Booking, now time.Time) bool {
	if b.Status == StatusCompleted || b.Status == StatusCancelled {
		return false
	}
	end, err := penalty.ScheduledEnd(b.Date, b.TimeOut, s.loc)
	if err != nil {
		return false
	}
	return end.After(now)
}

func (s *service) GetReceipt(ctx context.Context, userID, bookingID string) (*ReceiptResponse, error) {
	b, err := s.ownedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == StatusCancelled {
		return nil, ErrNoReceipt
	}
	return buildReceipt(b, s.loc), nil
}

func (s *service) ownedBooking(ctx context.Context, userID, bookingID string) (*Booking, error) {
	if userID == "" {
		return nil, penalty.ErrAuthenticationRequired
	}
	if _, err := uuid.Parse(bookingID); err != nil {
		return nil, ErrBookingNotFound
	}
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// resolveDetails fills blank request fields from the profile and validates
// the result with the booking form rules.
func (s *service) resolveDetails(user *users.User, req CreateBookingRequest) (*bookingDetails, error) {
	d := &bookingDetails{
		FullName:  firstNonEmpty(req.FullName, user.FullName),
		StudentID: validation.NormalizeStudentID(firstNonEmpty(req.StudentID, user.StudentID)),
		CarPlate:  validation.NormalizeCarPlate(firstNonEmpty(req.CarPlate, user.CarPlate)),
	}
	if err := s.validate.Struct(d); err != nil {
		return nil, &DetailsError{Err: err}
	}
	return d, nil
}

// checkCanBook rejects users who still hold a booking or owe a penalty
func (s *service) checkCanBook(ctx context.Context, userID string) error {
	active, err := s.repo.HasActiveBooking(ctx, userID)
	if err != nil {
		return &ReservationError{Step: StepBooking, Err: err}
	}
	if active {
		return &ReservationError{Step: StepBooking, Err: ErrActiveBookingExists}
	}

	acc, err := s.engine.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, penalty.ErrAccountNotFound) {
			return nil
		}
		return &ReservationError{Step: StepPenaltyAccount, Err: err}
	}
	if acc.Phase == penalty.PhaseRemovedUnpaid {
		return ErrOutstandingPenalty
	}
	return nil
}

func (s *service) startSession(ctx context.Context, userID string) {
	if _, err := s.engine.StartSession(ctx, userID); err != nil {
		logger.GetDefault().WithUserID(userID).WithError(err).Warn("failed to start penalty session")
	}
}

func (s *service) scheduleReminders(ctx context.Context, b *Booking, w Window) {
	err := s.notifier.ScheduleBookingReminders(ctx, notifications.BookingWindow{
		UserID:    b.UserID,
		BookingID: b.ID.String(),
		Zone:      b.ZoneName,
		Lot:       b.SlotLabel,
		Start:     w.Start,
		End:       w.End,
	})
	if err != nil {
		logger.GetDefault().WithUserID(b.UserID).WithError(err).Warn("failed to schedule booking reminders")
	}
}

func (s *service) invalidateSlots(ctx context.Context, zoneID string) {
	if s.cache != nil {
		s.cache.InvalidateSlots(ctx, zoneID)
	}
}

// checkBayAccess applies the OKU bay rules: OKU users park in OKU bays and
// OKU bays are closed to everyone else.
func checkBayAccess(isOKU bool, slot *zones.Slot) error {
	switch {
	case isOKU && !slot.IsOKU():
		return ErrOKUSlotRequired
	case !isOKU && slot.IsOKU():
		return ErrOKUBayRestricted
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
