package bookings

import (
	"context"
	"errors"
	"time"

	"campuspark/internal/penalty"

	"github.com/google/uuid"
)

// PenaltyStoreAdapter exposes bookings to the penalty engine
type PenaltyStoreAdapter struct {
	repo  Repository
	slots SlotCache
}

// NewPenaltyStoreAdapter wires repo; slots may be nil when caching is off
func NewPenaltyStoreAdapter(repo Repository, slots SlotCache) *PenaltyStoreAdapter {
	return &PenaltyStoreAdapter{repo: repo, slots: slots}
}

var _ penalty.BookingStore = (*PenaltyStoreAdapter)(nil)

func (a *PenaltyStoreAdapter) GetBookingRecord(ctx context.Context, bookingID string) (*penalty.BookingRecord, error) {
	if _, err := uuid.Parse(bookingID); err != nil {
		return nil, penalty.ErrBookingNotFound
	}
	b, err := a.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, penalty.ErrBookingNotFound
		}
		return nil, err
	}

	rec := &penalty.BookingRecord{
		ID:            b.ID.String(),
		UserID:        b.UserID,
		Date:          b.Date,
		TimeIn:        b.TimeIn,
		TimeOut:       b.TimeOut,
		Status:        string(b.Status),
		ZoneName:      b.ZoneName,
		SlotLabel:     b.SlotLabel,
		HasRemovedCar: b.HasRemovedCar,
	}
	if b.CarRemovedAt.Valid {
		t := b.CarRemovedAt.Time
		rec.CarRemovedAt = &t
	}
	return rec, nil
}

func (a *PenaltyStoreAdapter) CompleteBooking(ctx context.Context, bookingID string, removedAt time.Time, finalPenalty int) error {
	b, err := a.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := a.repo.Complete(ctx, bookingID, removedAt, finalPenalty); err != nil {
		return err
	}
	if a.slots != nil {
		a.slots.InvalidateSlots(ctx, b.ZoneID)
	}
	return nil
}
