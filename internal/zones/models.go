package zones

import "time"

type SlotType string

const (
	SlotTypeRegular  SlotType = "regular"
	SlotTypeDisabled SlotType = "disabled"
	SlotTypeOKU      SlotType = "oku"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
)

func (t SlotType) IsValid() bool {
	switch t {
	case SlotTypeRegular, SlotTypeDisabled, SlotTypeOKU:
		return true
	}
	return false
}

func (s SlotStatus) IsValid() bool {
	return s == SlotStatusAvailable || s == SlotStatusBooked
}

// Zone is a campus parking area, e.g. "zone-a"
type Zone struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Zone) TableName() string {
	return "parking_zones"
}

type Slot struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(96)"`
	ZoneID    string     `json:"zone_id" gorm:"type:varchar(64);not null;index"`
	Label     string     `json:"label" gorm:"not null"`
	Type      SlotType   `json:"type" gorm:"type:varchar(16);not null;default:'regular'"`
	Status    SlotStatus `json:"status" gorm:"type:varchar(16);not null;default:'available'"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Zone *Zone `json:"-" gorm:"foreignKey:ZoneID"`
}

func (Slot) TableName() string {
	return "parking_slots"
}

// IsOKU reports whether the bay is reserved for OKU cardholders
func (s *Slot) IsOKU() bool {
	return s.Type == SlotTypeOKU
}
