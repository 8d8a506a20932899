package models

import (
	"time"

	"gorm.io/gorm"
)

// Ride is a posted trip offering seats to passengers. AvailableSeats is the
// only field that changes after creation, and only through the booking
// coordinator.
type Ride struct {
	gorm.Model
	DriverID       *uint     `json:"driverId" gorm:"index"`
	Driver         *User     `json:"driver,omitempty"`
	ContactName    string    `json:"contactName" gorm:"column:contact_name"`
	ContactEmail   string    `json:"contactEmail" gorm:"column:contact_email"`
	Origin         string    `json:"origin" gorm:"not null"`
	Destination    string    `json:"destination" gorm:"not null"`
	DepartureTime  time.Time `json:"departureTime" gorm:"not null;index"`
	ArrivalTime    time.Time `json:"arrivalTime" gorm:"not null"`
	TotalSeats     int       `json:"totalSeats" gorm:"not null"`
	AvailableSeats int       `json:"availableSeats" gorm:"not null"`
	CostPerPerson  float64   `json:"costPerPerson" gorm:"not null"`
	// ManageToken lets a guest poster manage their ride without an account.
	ManageToken string `json:"-" gorm:"column:manage_token;index"`
}

func (r *Ride) GuestOwned() bool {
	return r.DriverID == nil
}
