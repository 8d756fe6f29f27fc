package bookings

import (
	"time"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
	"gorm.io/gorm"
)

const (
	BayTypeNormal = "Normal"
	BayTypeOKU    = "OKU"
)

type Booking struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID string    `json:"user_id" gorm:"type:uuid;not null;index"`

	FullName  string `json:"full_name" gorm:"not null"`
	StudentID string `json:"student_id" gorm:"type:varchar(16);not null"`
	CarPlate  string `json:"car_plate" gorm:"type:varchar(16);not null"`

	ZoneID    string `json:"zone_id" gorm:"type:varchar(64);not null;index"`
	ZoneName  string `json:"zone_name" gorm:"not null"`
	SlotID    string `json:"slot_id" gorm:"type:varchar(96);not null"`
	SlotLabel string `json:"slot_label" gorm:"not null"`

	Date            string `json:"date" gorm:"type:varchar(10);not null"`
	TimeIn          string `json:"time_in" gorm:"type:varchar(5);not null"`
	TimeOut         string `json:"time_out" gorm:"type:varchar(5);not null"`
	DurationMinutes int    `json:"duration_minutes" gorm:"not null"`
	BayType         string `json:"bay_type" gorm:"type:varchar(8);not null;default:'Normal'"`

	Status        Status    `json:"status" gorm:"type:varchar(16);not null;default:'booked';index"`
	HasRemovedCar bool      `json:"has_removed_car" gorm:"not null;default:false"`
	CarRemovedAt  null.Time `json:"car_removed_at"`
	FinalPenalty  int       `json:"final_penalty" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string {
	return "parking_bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BayTypeFor labels a slot for receipts
func BayTypeFor(oku bool) string {
	if oku {
		return BayTypeOKU
	}
	return BayTypeNormal
}
