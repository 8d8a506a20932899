package models

import (
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusDenied   RequestStatus = "denied"
)

// RideRequest is a passenger's ask for seats on a ride. Status only ever
// moves pending -> approved or pending -> denied. The composite unique
// index keeps a registered requester to one request per ride; guest rows
// have a NULL requester_id and are not constrained.
type RideRequest struct {
	gorm.Model
	RideID         uint          `json:"rideId" gorm:"not null;uniqueIndex:idx_ride_requester"`
	Ride           *Ride         `json:"ride,omitempty"`
	RequesterID    *uint         `json:"requesterId" gorm:"uniqueIndex:idx_ride_requester"`
	Requester      *User         `json:"requester,omitempty"`
	ContactName    string        `json:"contactName" gorm:"column:contact_name"`
	ContactEmail   string        `json:"contactEmail" gorm:"column:contact_email"`
	SeatsRequested int           `json:"seatsRequested" gorm:"not null"`
	Status         RequestStatus `json:"status" gorm:"not null;default:'pending';index"`
	// TrackingRef lets anyone holding it poll the request status, which is
	// how guests without an account follow up.
	TrackingRef string `json:"trackingRef" gorm:"uniqueIndex"`
}

func (r *RideRequest) GuestRequested() bool {
	return r.RequesterID == nil
}
