package bookings

import (
	"context"
	"errors"
	"time"

	"campuspark/internal/penalty"
	"campuspark/internal/zones"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	HasActiveBooking(ctx context.Context, userID string) (bool, error)

	// Reserve locks the slot, inserts the booking, marks the slot booked and
	// resets the user's penalty session in one transaction.
	Reserve(ctx context.Context, booking *Booking, account *penalty.Account) error
	// Reschedule moves a not-yet-started booking and resets its session times
	Reschedule(ctx context.Context, booking *Booking, account *penalty.Account) error
	// Cancel releases the slot and closes the penalty session
	Cancel(ctx context.Context, bookingID string) (*Booking, error)
	// Complete records the car removal and releases the slot
	Complete(ctx context.Context, bookingID string, removedAt time.Time, finalPenalty int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	var booking Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, time_in DESC, created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) HasActiveBooking(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("user_id = ? AND status IN ?", userID, activeStatuses).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Reserve(ctx context.Context, booking *Booking, account *penalty.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the slot row so concurrent reservations serialize on it
		slots := zones.NewRepository(tx)
		slot, err := slots.LockSlot(ctx, booking.SlotID)
		if err != nil {
			return &ReservationError{Step: StepSlot, Err: err}
		}

		// 2. Check the slot is still free
		if slot.Status != zones.SlotStatusAvailable {
			return &ReservationError{Step: StepSlot, Err: ErrSlotUnavailable}
		}

		// 3. One active booking per user
		active, err := NewRepository(tx).HasActiveBooking(ctx, booking.UserID)
		if err != nil {
			return &ReservationError{Step: StepBooking, Err: err}
		}
		if active {
			return &ReservationError{Step: StepBooking, Err: ErrActiveBookingExists}
		}

		// 4. Insert the booking
		if err := tx.Create(booking).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				err = ErrActiveBookingExists
			}
			return &ReservationError{Step: StepBooking, Err: err}
		}

		// 5. Mark the slot booked
		if err := slots.UpdateSlotStatus(ctx, slot.ID, zones.SlotStatusBooked); err != nil {
			return &ReservationError{Step: StepSlot, Err: err}
		}

		// 6. Fresh penalty session for this booking
		if err := penalty.NewRepository(tx).ResetSession(ctx, account); err != nil {
			return &ReservationError{Step: StepPenaltyAccount, Err: err}
		}
		return nil
	})
}

func (r *repository) Reschedule(ctx context.Context, booking *Booking, account *penalty.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockBooking(ctx, tx, booking.ID.String())
		if err != nil {
			return err
		}
		if !current.Status.CanReschedule() {
			return ErrNotReschedulable
		}

		err = tx.Model(current).Updates(map[string]interface{}{
			"date":             booking.Date,
			"time_in":          booking.TimeIn,
			"time_out":         booking.TimeOut,
			"duration_minutes": booking.DurationMinutes,
			"car_plate":        booking.CarPlate,
		}).Error
		if err != nil {
			return err
		}

		return penalty.NewRepository(tx).ResetSession(ctx, account)
	})
}

func (r *repository) Cancel(ctx context.Context, bookingID string) (*Booking, error) {
	var cancelled *Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !current.Status.IsActive() {
			return ErrBookingClosed
		}

		if err := tx.Model(current).Update("status", StatusCancelled).Error; err != nil {
			return err
		}
		if err := zones.NewRepository(tx).UpdateSlotStatus(ctx, current.SlotID, zones.SlotStatusAvailable); err != nil {
			return err
		}
		if err := penalty.NewRepository(tx).CloseSession(ctx, current.UserID, bookingID); err != nil {
			return err
		}

		current.Status = StatusCancelled
		cancelled = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (r *repository) Complete(ctx context.Context, bookingID string, removedAt time.Time, finalPenalty int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		switch current.Status {
		case StatusCompleted:
			return nil
		case StatusCancelled:
			return ErrBookingClosed
		}

		err = tx.Model(current).Updates(map[string]interface{}{
			"status":          StatusCompleted,
			"has_removed_car": true,
			"car_removed_at":  removedAt,
			"final_penalty":   finalPenalty,
		}).Error
		if err != nil {
			return err
		}

		return zones.NewRepository(tx).UpdateSlotStatus(ctx, current.SlotID, zones.SlotStatusAvailable)
	})
}

func lockBooking(ctx context.Context, tx *gorm.DB, id string) (*Booking, error) {
	var booking Booking
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &booking, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBookingNotFound
	}
	return err
}
