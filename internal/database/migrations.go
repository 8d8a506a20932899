package database

import (
	"github.com/campuspool/campuspool-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Ride{},
		&models.RideRequest{},
	)
	if err != nil {
		return err
	}

	// Database-level backstops for the seat and status invariants.
	if db.Migrator().HasTable(&models.Ride{}) {
		db.Exec(`ALTER TABLE rides DROP CONSTRAINT IF EXISTS rides_available_seats_check`)
		if err := db.Exec(`ALTER TABLE rides ADD CONSTRAINT rides_available_seats_check CHECK (available_seats >= 0 AND available_seats <= total_seats)`).Error; err != nil {
			return err
		}
		db.Exec(`ALTER TABLE rides DROP CONSTRAINT IF EXISTS rides_total_seats_check`)
		if err := db.Exec(`ALTER TABLE rides ADD CONSTRAINT rides_total_seats_check CHECK (total_seats > 0)`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.RideRequest{}) {
		db.Exec(`ALTER TABLE ride_requests DROP CONSTRAINT IF EXISTS ride_requests_status_check`)
		if err := db.Exec(`ALTER TABLE ride_requests ADD CONSTRAINT ride_requests_status_check CHECK (status IN ('pending', 'approved', 'denied'))`).Error; err != nil {
			return err
		}
		db.Exec(`ALTER TABLE ride_requests DROP CONSTRAINT IF EXISTS ride_requests_seats_check`)
		if err := db.Exec(`ALTER TABLE ride_requests ADD CONSTRAINT ride_requests_seats_check CHECK (seats_requested > 0)`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_user_type_check`)
		if err := db.Exec(`ALTER TABLE users ADD CONSTRAINT users_user_type_check CHECK (user_type IN ('passenger', 'driver'))`).Error; err != nil {
			return err
		}
	}

	return nil
}
