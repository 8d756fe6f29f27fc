package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"campuspark/internal/shared/config"
	"campuspark/internal/shared/database"
	"campuspark/internal/users"
	"campuspark/internal/zones"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting CampusPark Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables, dependents first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"penalty_accounts",
		"parking_bookings",
		"parking_slots",
		"parking_zones",
		"users",
	}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if err := s.SeedZones(ctx); err != nil {
		return fmt.Errorf("failed to seed zones: %w", err)
	}

	// Clear Redis cache so listings reflect the fresh slots
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates an admin, a student and an OKU student
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	// Hash password for all users (using "qwerty")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		fullName  string
		studentID string
		email     string
		carPlate  string
		isOKU     bool
		okuID     string
		role      users.Role
	}{
		{"Campus Admin", "ADM00000001", "admin@campuspark.edu", "", false, "", users.RoleAdmin},
		{"Aisyah Rahman", "BAI123456", "aisyah@student.campuspark.edu", "WXY 1234", false, "", users.RoleUser},
		{"Daniel Lee", "BCS7654321", "daniel@student.campuspark.edu", "B 88 K", true, "OKU-88123", users.RoleUser},
	}

	for _, u := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FullName:  u.fullName,
			StudentID: u.studentID,
			Email:     u.email,
			Password:  string(hashedPassword),
			Role:      u.role,
			CarPlate:  u.carPlate,
			IsOKU:     u.isOKU,
			OKUID:     u.okuID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.email, err)
		}
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return nil
}

// zoneSeed describes one campus zone and its bay mix
type zoneSeed struct {
	id          string
	name        string
	description string
	prefix      string
	regular     int
	oku         int
	disabled    int
}

// SeedZones creates zones A-D with regular, OKU and disabled bays
func (s *Seeder) SeedZones(ctx context.Context) error {
	fmt.Println("  🅿️  Seeding zones and slots...")

	seeds := []zoneSeed{
		{"zone-a", "Zone A", "Main library, 2 min walk", "A", 20, 3, 2},
		{"zone-b", "Zone B", "Engineering block, 5 min walk", "B", 16, 2, 2},
		{"zone-c", "Zone C", "Sports complex, 8 min walk", "C", 24, 4, 2},
		{"zone-d", "Zone D", "Student residences, 10 min walk", "D", 12, 2, 1},
	}

	repo := zones.NewRepository(s.db.PostgreSQL)
	for i, zs := range seeds {
		zone := &zones.Zone{
			ID:          zs.id,
			Name:        zs.name,
			Description: zs.description,
			SortOrder:   i,
		}
		if err := repo.CreateZone(ctx, zone); err != nil {
			return fmt.Errorf("failed to create zone %s: %w", zs.name, err)
		}

		slots := buildSlots(zs)
		if err := repo.CreateSlots(ctx, slots); err != nil {
			return fmt.Errorf("failed to create slots for %s: %w", zs.name, err)
		}
		fmt.Printf("    ✅ Created %s with %d slots\n", zone.Name, len(slots))
	}

	return nil
}

// buildSlots labels OKU bays first so they sit nearest the entrance
func buildSlots(zs zoneSeed) []zones.Slot {
	var slots []zones.Slot
	n := 0
	add := func(count int, t zones.SlotType) {
		for i := 0; i < count; i++ {
			n++
			label := fmt.Sprintf("%s%02d", zs.prefix, n)
			slots = append(slots, zones.Slot{
				ID:     zones.SlotID(zs.id, label),
				ZoneID: zs.id,
				Label:  label,
				Type:   t,
				Status: zones.SlotStatusAvailable,
			})
		}
	}
	add(zs.oku, zones.SlotTypeOKU)
	add(zs.disabled, zones.SlotTypeDisabled)
	add(zs.regular, zones.SlotTypeRegular)
	return slots
}
