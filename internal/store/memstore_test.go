package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campuspool/campuspool-backend/internal/booking"
	"github.com/campuspool/campuspool-backend/internal/models"
)

func seedRide(t *testing.T, s *MemStore, seats int) *models.Ride {
	t.Helper()
	ride := &models.Ride{
		Origin:         "North Campus",
		Destination:    "City Center",
		DepartureTime:  time.Now().Add(time.Hour),
		ArrivalTime:    time.Now().Add(2 * time.Hour),
		TotalSeats:     seats,
		AvailableSeats: seats,
	}
	if err := s.CreateRide(context.Background(), ride); err != nil {
		t.Fatalf("create ride: %v", err)
	}
	return ride
}

func seedRequest(t *testing.T, s *MemStore, rideID uint, seats int) *models.RideRequest {
	t.Helper()
	req := &models.RideRequest{
		RideID:         rideID,
		ContactName:    "Guest",
		ContactEmail:   "guest@example.com",
		SeatsRequested: seats,
		Status:         models.RequestStatusPending,
	}
	if err := s.CreateRequest(context.Background(), req); err != nil {
		t.Fatalf("create request: %v", err)
	}
	return req
}

func TestApproveSpendsExactRemainingSeats(t *testing.T) {
	s := NewMemStore()
	ride := seedRide(t, s, 2)
	req := seedRequest(t, s, ride.ID, 2)

	updated, err := s.Approve(context.Background(), req)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if updated.AvailableSeats != 0 {
		t.Fatalf("expected 0 seats left, got %d", updated.AvailableSeats)
	}
}

func TestApproveFailsWithoutTouchingState(t *testing.T) {
	s := NewMemStore()
	ride := seedRide(t, s, 1)
	req := seedRequest(t, s, ride.ID, 2)

	if _, err := s.Approve(context.Background(), req); !errors.Is(err, booking.ErrInsufficientSeats) {
		t.Fatalf("expected ErrInsufficientSeats, got %v", err)
	}

	// Neither side of the failed approval may have been applied.
	current, err := s.GetRide(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	if current.AvailableSeats != 1 {
		t.Fatalf("availability changed: got %d want 1", current.AvailableSeats)
	}
	stored, err := s.GetRequest(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if stored.Status != models.RequestStatusPending {
		t.Fatalf("status changed: got %s want pending", stored.Status)
	}
}

func TestApproveResolvedRequestFails(t *testing.T) {
	s := NewMemStore()
	ride := seedRide(t, s, 4)
	req := seedRequest(t, s, ride.ID, 2)

	if err := s.Deny(context.Background(), req.ID); err != nil {
		t.Fatalf("deny: %v", err)
	}
	if _, err := s.Approve(context.Background(), req); !errors.Is(err, booking.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := s.Deny(context.Background(), req.ID); !errors.Is(err, booking.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on second deny, got %v", err)
	}
}

func TestReturnedRidesAreCopies(t *testing.T) {
	s := NewMemStore()
	ride := seedRide(t, s, 4)

	got, err := s.GetRide(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	got.AvailableSeats = 0

	again, err := s.GetRide(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("get ride again: %v", err)
	}
	if again.AvailableSeats != 4 {
		t.Fatal("mutating a returned ride leaked into the store")
	}
}
