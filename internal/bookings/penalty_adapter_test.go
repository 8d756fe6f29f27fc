package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"campuspark/internal/penalty"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"
)

func TestPenaltyStoreAdapter_GetBookingRecord(t *testing.T) {
	removedAt := time.Date(2026, 10, 19, 11, 42, 0, 0, time.UTC)
	b := storedBooking(StatusCompleted)
	b.HasRemovedCar = true
	b.CarRemovedAt = null.TimeFrom(removedAt)

	adapter := NewPenaltyStoreAdapter(&mockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Booking, error) {
			if id == b.ID.String() {
				return b, nil
			}
			return nil, ErrBookingNotFound
		},
	}, nil)
	ctx := context.Background()

	rec, err := adapter.GetBookingRecord(ctx, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, testUserID, rec.UserID)
	assert.Equal(t, "11:30", rec.TimeOut)
	assert.Equal(t, "completed", rec.Status)
	require.NotNil(t, rec.CarRemovedAt)
	assert.Equal(t, removedAt, *rec.CarRemovedAt)

	_, err = adapter.GetBookingRecord(ctx, "bogus")
	assert.True(t, errors.Is(err, penalty.ErrBookingNotFound))

	_, err = adapter.GetBookingRecord(ctx, "7c9e6679-7425-40de-944b-e07fc1f90ae7")
	assert.True(t, errors.Is(err, penalty.ErrBookingNotFound))
}

func TestPenaltyStoreAdapter_CompleteBooking(t *testing.T) {
	b := storedBooking(StatusBooked)
	var gotPenalty int
	cache := &mockCache{}
	adapter := NewPenaltyStoreAdapter(&mockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Booking, error) {
			return b, nil
		},
		CompleteFunc: func(ctx context.Context, bookingID string, removedAt time.Time, finalPenalty int) error {
			gotPenalty = finalPenalty
			return nil
		},
	}, cache)

	require.NoError(t, adapter.CompleteBooking(context.Background(), b.ID.String(), testNow, 30))
	assert.Equal(t, 30, gotPenalty)
	assert.Equal(t, []string{"zone-a"}, cache.invalidated)
}

func TestPenaltyStoreAdapter_CompleteBookingFails(t *testing.T) {
	cache := &mockCache{}
	adapter := NewPenaltyStoreAdapter(&mockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Booking, error) {
			return storedBooking(StatusCancelled), nil
		},
		CompleteFunc: func(ctx context.Context, bookingID string, removedAt time.Time, finalPenalty int) error {
			return ErrBookingClosed
		},
	}, cache)

	err := adapter.CompleteBooking(context.Background(), "0f9d6a7e-3c1b-4d2a-9e8f-1a2b3c4d5e6f", testNow, 0)
	assert.True(t, errors.Is(err, ErrBookingClosed))
	assert.Empty(t, cache.invalidated)
}
