package bookings

import (
	"errors"
	"fmt"
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrSlotUnavailable     = errors.New("slot is not available")
	ErrActiveBookingExists = errors.New("you already have an active booking")
	ErrOutstandingPenalty  = errors.New("an unpaid penalty must be settled before booking again")
	ErrOKUSlotRequired     = errors.New("OKU users must book an OKU bay")
	ErrOKUBayRestricted    = errors.New("OKU bays are reserved for OKU cardholders")
	ErrNotReschedulable    = errors.New("booking can no longer be rescheduled")
	ErrBookingClosed       = errors.New("booking is already completed or cancelled")
	ErrNoReceipt           = errors.New("cancelled bookings have no receipt")
)

// Reservation steps, in transaction order
const (
	StepSlot           = "slot"
	StepBooking        = "booking"
	StepPenaltyAccount = "penalty_account"
)

// ReservationError names the step that aborted a reservation. Nothing from
// the transaction was committed.
type ReservationError struct {
	Step string
	Err  error
}

func (e *ReservationError) Error() string {
	return fmt.Sprintf("reservation failed at %s: %v", e.Step, e.Err)
}

func (e *ReservationError) Unwrap() error { return e.Err }

// DetailsError wraps a failed check of the holder's name, student ID or plate
type DetailsError struct {
	Err error
}

func (e *DetailsError) Error() string {
	return "invalid booking details: " + e.Err.Error()
}

func (e *DetailsError) Unwrap() error { return e.Err }
