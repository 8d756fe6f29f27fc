package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the database constraints the reservation flow relies on
func MigrateConstraints(db *gorm.DB) error {
	// A user holds at most one active booking at a time
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_parking_bookings_active_user
		ON parking_bookings (user_id)
		WHERE status IN ('booked', 'confirmed', 'active');
	`).Error
	if err != nil {
		return err
	}

	// A slot can carry only one active booking
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_parking_bookings_active_slot
		ON parking_bookings (slot_id)
		WHERE status IN ('booked', 'confirmed', 'active');
	`).Error
	if err != nil {
		return err
	}

	// Slot listings are always filtered by zone
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_parking_slots_zone_label
		ON parking_slots (zone_id, label);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
