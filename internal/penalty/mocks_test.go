package penalty

import (
	"context"
	"sync"
	"time"
)

// fakeRepository keeps accounts in memory. saveErr, when set, fails every
// SaveLifecycle call.
type fakeRepository struct {
	mu       sync.Mutex
	accounts map[string]Account
	saves    int
	saveErr  error
}

func newFakeRepository(accounts ...Account) *fakeRepository {
	r := &fakeRepository{accounts: make(map[string]Account)}
	for _, acc := range accounts {
		r.accounts[acc.UserID] = acc
	}
	return r
}

func (r *fakeRepository) GetAccount(ctx context.Context, userID string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[userID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &acc, nil
}

func (r *fakeRepository) SaveLifecycle(ctx context.Context, acc *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	if stored, ok := r.accounts[acc.UserID]; ok && stored.CurrentBookingID != acc.CurrentBookingID {
		return nil
	}
	r.accounts[acc.UserID] = *acc
	return nil
}

func (r *fakeRepository) ResetSession(ctx context.Context, acc *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[acc.UserID] = *acc
	return nil
}

func (r *fakeRepository) CloseSession(ctx context.Context, userID, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[userID]
	if ok && acc.CurrentBookingID == bookingID {
		acc.IsSessionActive = false
		acc.IsInOvertime = false
		r.accounts[userID] = acc
	}
	return nil
}

func (r *fakeRepository) ListActiveAccounts(ctx context.Context) ([]Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Account
	for _, acc := range r.accounts {
		if acc.IsSessionActive && !acc.IsPaid {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (r *fakeRepository) setSaveErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr = err
}

func (r *fakeRepository) stored(userID string) Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[userID]
}

func (r *fakeRepository) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

type mockBookingStore struct {
	GetBookingRecordFunc func(ctx context.Context, bookingID string) (*BookingRecord, error)
	CompleteBookingFunc  func(ctx context.Context, bookingID string, removedAt time.Time, finalPenalty int) error
}

func (m *mockBookingStore) GetBookingRecord(ctx context.Context, bookingID string) (*BookingRecord, error) {
	if m.GetBookingRecordFunc != nil {
		return m.GetBookingRecordFunc(ctx, bookingID)
	}
	return nil, ErrBookingNotFound
}

func (m *mockBookingStore) CompleteBooking(ctx context.Context, bookingID string, removedAt time.Time, finalPenalty int) error {
	if m.CompleteBookingFunc != nil {
		return m.CompleteBookingFunc(ctx, bookingID, removedAt, finalPenalty)
	}
	return nil
}

// fixedClock returns a clock pinned to t
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
