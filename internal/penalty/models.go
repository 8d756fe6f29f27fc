package penalty

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

// Account is the per-user penalty session, one row per user. It is reset
// when the user books and never deleted.
type Account struct {
	UserID           string `json:"user_id" gorm:"primaryKey;type:varchar(64)"`
	CurrentBookingID string `json:"current_booking_id" gorm:"type:varchar(64)"`
	Zone             string `json:"zone"`
	SlotLabel        string `json:"slot_label"`
	BookingStartTime string `json:"booking_start_time" gorm:"type:varchar(5)"`
	BookingEndTime   string `json:"booking_end_time" gorm:"type:varchar(5)"`
	BookingDate      string `json:"booking_date" gorm:"type:varchar(10)"`

	IsPaid              bool `json:"is_paid" gorm:"not null;default:false"`
	HasCompletedBooking bool `json:"has_completed_booking" gorm:"not null;default:false"`
	IsSessionActive     bool `json:"is_session_active" gorm:"not null;default:false"`
	CarRemoved          bool `json:"car_removed" gorm:"not null;default:false"`
	IsInOvertime        bool `json:"is_in_overtime" gorm:"not null;default:false"`

	PenaltyAmount   int `json:"penalty_amount" gorm:"not null;default:0"`
	OvertimeMinutes int `json:"overtime_minutes" gorm:"not null;default:0"`

	CarRemovedAt       null.Time `json:"car_removed_at"`
	PaymentCompletedAt null.Time `json:"payment_completed_at"`
	FinalAmount        null.Int  `json:"final_amount"`

	LastUpdated time.Time `json:"last_updated"`
}

func (Account) TableName() string {
	return "penalty_accounts"
}

// NewSessionAccount returns the fresh session written when a booking is made
func NewSessionAccount(userID, bookingID, zone, slotLabel, date, start, end string, now time.Time) *Account {
	return &Account{
		UserID:           userID,
		CurrentBookingID: bookingID,
		Zone:             zone,
		SlotLabel:        slotLabel,
		BookingStartTime: start,
		BookingEndTime:   end,
		BookingDate:      date,
		IsSessionActive:  true,
		LastUpdated:      now,
	}
}

// HasActiveSession is false once the session is paid and completed
func (a *Account) HasActiveSession() bool {
	if a.IsPaid && a.HasCompletedBooking {
		return false
	}
	return a.IsSessionActive
}

// lifecycleColumns are the only columns a running session writes
var lifecycleColumns = []string{
	"is_paid",
	"has_completed_booking",
	"is_session_active",
	"car_removed",
	"is_in_overtime",
	"penalty_amount",
	"overtime_minutes",
	"car_removed_at",
	"payment_completed_at",
	"final_amount",
	"last_updated",
}

// sessionColumns are overwritten when a new booking resets the account
var sessionColumns = append([]string{
	"current_booking_id",
	"zone",
	"slot_label",
	"booking_start_time",
	"booking_end_time",
	"booking_date",
}, lifecycleColumns...)
