package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campuspark/internal/penalty"
	"campuspark/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"
)

// memoryAccounts is an in-memory penalty.Repository. Like the SQL upsert,
// SaveLifecycle leaves a row alone once it belongs to another booking.
type memoryAccounts struct {
	mu       sync.Mutex
	accounts map[string]penalty.Account
	saveErr  error
}

func newMemoryAccounts(accounts ...penalty.Account) *memoryAccounts {
	m := &memoryAccounts{accounts: make(map[string]penalty.Account)}
	for _, acc := range accounts {
		m.accounts[acc.UserID] = acc
	}
	return m
}

func (m *memoryAccounts) GetAccount(ctx context.Context, userID string) (*penalty.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[userID]
	if !ok {
		return nil, penalty.ErrAccountNotFound
	}
	return &acc, nil
}

func (m *memoryAccounts) SaveLifecycle(ctx context.Context, acc *penalty.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if stored, ok := m.accounts[acc.UserID]; ok && stored.CurrentBookingID != acc.CurrentBookingID {
		return nil
	}
	m.accounts[acc.UserID] = *acc
	return nil
}

func (m *memoryAccounts) ResetSession(ctx context.Context, acc *penalty.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[acc.UserID] = *acc
	return nil
}

func (m *memoryAccounts) CloseSession(ctx context.Context, userID, bookingID string) error {
	return nil
}

func (m *memoryAccounts) ListActiveAccounts(ctx context.Context) ([]penalty.Account, error) {
	return nil, nil
}

func (m *memoryAccounts) setSaveErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

func (m *memoryAccounts) stored(userID string) penalty.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[userID]
}

// unpaidAccount is yesterday's session: car removed 20 minutes late, RM20 due
func unpaidAccount() penalty.Account {
	acc := penalty.NewSessionAccount(testUserID, "booking-yesterday", "Zone A", "A02", "2026-10-18", "08:00", "10:00", testNow.Add(-24*time.Hour))
	acc.IsInOvertime = true
	acc.CarRemoved = true
	acc.PenaltyAmount = 20
	acc.OvertimeMinutes = 20
	acc.CarRemovedAt = null.TimeFrom(time.Date(2026, 10, 18, 10, 20, 0, 0, time.UTC))
	return *acc
}

// newEngineService wires the real penalty engine into a bookings service
func newEngineService(t *testing.T, repo *mockRepository, accounts *memoryAccounts) (*service, penalty.Service, *penalty.Supervisor) {
	t.Helper()
	cfg := config.DefaultPenaltyConfig()
	cfg.TickInterval = time.Hour
	cfg.SyncRetryDelay = time.Hour
	cfg.Timezone = "UTC"

	broker := penalty.NewBroker(16)
	sup, err := penalty.NewSupervisor(accounts, broker, cfg)
	require.NoError(t, err)
	sup.WithClock(func() time.Time { return testNow })
	t.Cleanup(func() { sup.Shutdown(context.Background()) })

	engine := penalty.NewService(accounts, sup, NewPenaltyStoreAdapter(repo, nil), broker)
	svc, _ := newTestService(repo)
	svc.engine = engine
	return svc, engine, sup
}

func TestReserve_FailureKeepsUnsyncedPayment(t *testing.T) {
	accounts := newMemoryAccounts(unpaidAccount())
	repo := &mockRepository{
		ReserveFunc: func(ctx context.Context, booking *Booking, acc *penalty.Account) error {
			return &ReservationError{Step: StepSlot, Err: ErrSlotUnavailable}
		},
	}
	svc, engine, sup := newEngineService(t, repo, accounts)
	ctx := context.Background()

	accounts.setSaveErr(errors.New("connection refused"))
	view, err := engine.ConfirmPayment(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, view.SyncPending)
	assert.Equal(t, penalty.PhaseComplete, view.Phase)

	_, err = svc.Reserve(ctx, testUserID, reserveRequest())
	assert.True(t, errors.Is(err, ErrSlotUnavailable))

	// the paid state is still held in memory and written once storage recovers
	_, ok := sup.Runner(testUserID)
	require.True(t, ok)
	accounts.setSaveErr(nil)
	require.NoError(t, engine.ReleaseSession(ctx, testUserID))

	stored := accounts.stored(testUserID)
	assert.True(t, stored.IsPaid)
	assert.Equal(t, penalty.PhaseComplete, stored.Phase())

	_, err = engine.ConfirmPayment(ctx, testUserID)
	var transErr *penalty.InvalidTransitionError
	assert.True(t, errors.As(err, &transErr))
}

func TestReserve_SuccessSupersedesUnsyncedSession(t *testing.T) {
	accounts := newMemoryAccounts(unpaidAccount())
	var reserved *Booking
	repo := &mockRepository{
		ReserveFunc: func(ctx context.Context, booking *Booking, acc *penalty.Account) error {
			reserved = booking
			return accounts.ResetSession(ctx, acc)
		},
	}
	svc, engine, sup := newEngineService(t, repo, accounts)
	ctx := context.Background()

	accounts.setSaveErr(errors.New("connection refused"))
	_, err := engine.ConfirmPayment(ctx, testUserID)
	require.NoError(t, err)
	accounts.setSaveErr(nil)

	_, err = svc.Reserve(ctx, testUserID, reserveRequest())
	require.NoError(t, err)

	// the previous runner's final flush does not land on the new session
	stored := accounts.stored(testUserID)
	assert.Equal(t, reserved.ID.String(), stored.CurrentBookingID)
	assert.False(t, stored.IsPaid)
	assert.False(t, stored.CarRemoved)
	assert.Equal(t, penalty.PhaseScheduled, stored.Phase())

	r, ok := sup.Runner(testUserID)
	require.True(t, ok)
	assert.Equal(t, reserved.ID.String(), r.Session().BookingID())
}
