package bookings

import (
	"context"
	"time"

	"campuspark/internal/notifications"
	"campuspark/internal/penalty"
	"campuspark/internal/users"
	"campuspark/internal/zones"
)

type mockRepository struct {
	GetByIDFunc          func(ctx context.Context, id string) (*Booking, error)
	ListByUserFunc       func(ctx context.Context, userID string) ([]Booking, error)
	HasActiveBookingFunc func(ctx context.Context, userID string) (bool, error)
	ReserveFunc          func(ctx context.Context, booking *Booking, account *penalty.Account) error
	RescheduleFunc       func(ctx context.Context, booking *Booking, account *penalty.Account) error
	CancelFunc           func(ctx context.Context, bookingID string) (*Booking, error)
	CompleteFunc         func(ctx context.Context, bookingID string, removedAt time.Time, finalPenalty int) error
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrBookingNotFound
}

func (m *mockRepository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockRepository) HasActiveBooking(ctx context.Context, userID string) (bool, error) {
	if m.HasActiveBookingFunc != nil {
		return m.HasActiveBookingFunc(ctx, userID)
	}
	return false, nil
}

func (m *mockRepository) Reserve(ctx context.Context, booking *Booking, account *penalty.Account) error {
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, booking, account)
	}
	return nil
}

func (m *mockRepository) Reschedule(ctx context.Context, booking *Booking, account *penalty.Account) error {
	if m.RescheduleFunc != nil {
		return m.RescheduleFunc(ctx, booking, account)
	}
	return nil
}

func (m *mockRepository) Cancel(ctx context.Context, bookingID string) (*Booking, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, bookingID)
	}
	return nil, ErrBookingNotFound
}

func (m *mockRepository) Complete(ctx context.Context, bookingID string, removedAt time.Time, finalPenalty int) error {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, bookingID, removedAt, finalPenalty)
	}
	return nil
}

type mockSlots struct {
	slots map[string]*zones.Slot
}

func (m *mockSlots) GetSlot(ctx context.Context, id string) (*zones.Slot, error) {
	if s, ok := m.slots[id]; ok {
		return s, nil
	}
	return nil, zones.ErrSlotNotFound
}

func (m *mockSlots) GetZone(ctx context.Context, id string) (*zones.Zone, error) {
	return &zones.Zone{ID: id, Name: "Zone A"}, nil
}

type mockUsers struct {
	users map[string]*users.User
}

func (m *mockUsers) GetUserByID(ctx context.Context, userID string) (*users.User, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, users.ErrUserNotFound
}

type mockEngine struct {
	GetAccountFunc      func(ctx context.Context, userID string) (*penalty.AccountView, error)
	EnsureScheduledFunc func(ctx context.Context, userID, bookingID, action string) error
	CloseSessionFunc    func(ctx context.Context, userID, bookingID string) error
	ReleaseSessionFunc  func(ctx context.Context, userID string) error
	calls               []string
}

func (m *mockEngine) GetAccount(ctx context.Context, userID string) (*penalty.AccountView, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(ctx, userID)
	}
	return nil, penalty.ErrAccountNotFound
}

func (m *mockEngine) StartSession(ctx context.Context, userID string) (*penalty.AccountView, error) {
	m.calls = append(m.calls, "start")
	return &penalty.AccountView{}, nil
}

func (m *mockEngine) EnsureScheduled(ctx context.Context, userID, bookingID, action string) error {
	if m.EnsureScheduledFunc != nil {
		return m.EnsureScheduledFunc(ctx, userID, bookingID, action)
	}
	return nil
}

func (m *mockEngine) CloseSession(ctx context.Context, userID, bookingID string) error {
	m.calls = append(m.calls, "close")
	if m.CloseSessionFunc != nil {
		return m.CloseSessionFunc(ctx, userID, bookingID)
	}
	return nil
}

func (m *mockEngine) ReleaseSession(ctx context.Context, userID string) error {
	m.calls = append(m.calls, "release")
	if m.ReleaseSessionFunc != nil {
		return m.ReleaseSessionFunc(ctx, userID)
	}
	return nil
}

type mockNotifier struct {
	scheduled []notifications.BookingWindow
	cancelled []string
}

func (m *mockNotifier) ScheduleBookingReminders(ctx context.Context, w notifications.BookingWindow) error {
	m.scheduled = append(m.scheduled, w)
	return nil
}

func (m *mockNotifier) CancelBookingReminders(ctx context.Context, userID, bookingID string) error {
	m.cancelled = append(m.cancelled, bookingID)
	return nil
}

type mockCache struct {
	invalidated []string
}

func (m *mockCache) InvalidateSlots(ctx context.Context, zoneID string) {
	m.invalidated = append(m.invalidated, zoneID)
}
