package database

import (
	"campuspark/internal/bookings"
	"campuspark/internal/penalty"
	"campuspark/internal/users"
	"campuspark/internal/zones"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&zones.Zone{},
		&zones.Slot{},
		&bookings.Booking{},
		&penalty.Account{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
