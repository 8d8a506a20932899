package booking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campuspool/campuspool-backend/internal/booking"
	"github.com/campuspool/campuspool-backend/internal/models"
)

func TestCreateRideValidation(t *testing.T) {
	svc, _ := newTestService()
	future := time.Now().Add(2 * time.Hour)
	driver := booking.RegisteredIdentity(1, string(models.UserTypeDriver))

	cases := []struct {
		name string
		spec booking.RideSpec
		want error
	}{
		{
			name: "zero seats",
			spec: booking.RideSpec{Owner: driver, Origin: "A", Destination: "B", DepartureTime: future, TotalSeats: 0},
			want: booking.ErrValidation,
		},
		{
			name: "negative seats",
			spec: booking.RideSpec{Owner: driver, Origin: "A", Destination: "B", DepartureTime: future, TotalSeats: -2},
			want: booking.ErrValidation,
		},
		{
			name: "past departure",
			spec: booking.RideSpec{Owner: driver, Origin: "A", Destination: "B", DepartureTime: time.Now().Add(-time.Hour), TotalSeats: 3},
			want: booking.ErrValidation,
		},
		{
			name: "missing origin",
			spec: booking.RideSpec{Owner: driver, Destination: "B", DepartureTime: future, TotalSeats: 3},
			want: booking.ErrValidation,
		},
		{
			name: "guest without contact",
			spec: booking.RideSpec{Owner: booking.GuestIdentity("", ""), Origin: "A", Destination: "B", DepartureTime: future, TotalSeats: 3},
			want: booking.ErrValidation,
		},
		{
			name: "registered passenger",
			spec: booking.RideSpec{Owner: booking.RegisteredIdentity(2, string(models.UserTypePassenger)), Origin: "A", Destination: "B", DepartureTime: future, TotalSeats: 3},
			want: booking.ErrUnauthorized,
		},
	}

	for _, tc := range cases {
		if _, err := svc.CreateRide(context.Background(), tc.spec); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
	}
}

func TestCreateRideInitializesInventory(t *testing.T) {
	svc, _ := newTestService()
	ride := mustCreateRide(t, svc, 1, 5)

	if ride.AvailableSeats != 5 {
		t.Fatalf("expected all seats available, got %d", ride.AvailableSeats)
	}
	if ride.ManageToken != "" {
		t.Fatal("registered ride should not carry a manage token")
	}
	if ride.ArrivalTime.Before(ride.DepartureTime) {
		t.Fatal("arrival time precedes departure")
	}
	if ride.CostPerPerson < 0 {
		t.Fatalf("negative cost: %f", ride.CostPerPerson)
	}
}

func TestCreateRequestValidation(t *testing.T) {
	svc, _ := newTestService()
	ride := mustCreateRide(t, svc, 1, 4)
	passenger := booking.RegisteredIdentity(2, string(models.UserTypePassenger))

	if _, err := svc.CreateRequest(context.Background(), ride.ID, passenger, 0); !errors.Is(err, booking.ErrValidation) {
		t.Fatalf("expected ErrValidation for zero seats, got %v", err)
	}
	if _, err := svc.CreateRequest(context.Background(), ride.ID, passenger, -1); !errors.Is(err, booking.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative seats, got %v", err)
	}
	if _, err := svc.CreateRequest(context.Background(), 9999, passenger, 2); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing ride, got %v", err)
	}
	if _, err := svc.CreateRequest(context.Background(), ride.ID, booking.GuestIdentity("", ""), 2); !errors.Is(err, booking.ErrValidation) {
		t.Fatalf("expected ErrValidation for guest without contact, got %v", err)
	}
}

func TestDuplicateRequestRejected(t *testing.T) {
	svc, _ := newTestService()
	ride := mustCreateRide(t, svc, 1, 4)
	passenger := booking.RegisteredIdentity(2, string(models.UserTypePassenger))

	if _, err := svc.CreateRequest(context.Background(), ride.ID, passenger, 1); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := svc.CreateRequest(context.Background(), ride.ID, passenger, 2); !errors.Is(err, booking.ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest, got %v", err)
	}
}

func TestGuestRequestsAreNotDeduplicated(t *testing.T) {
	svc, _ := newTestService()
	ride := mustCreateRide(t, svc, 1, 4)
	guest := booking.GuestIdentity("Kofi", "kofi@example.com")

	first, err := svc.CreateRequest(context.Background(), ride.ID, guest, 1)
	if err != nil {
		t.Fatalf("first guest request: %v", err)
	}
	second, err := svc.CreateRequest(context.Background(), ride.ID, guest, 1)
	if err != nil {
		t.Fatalf("second guest request: %v", err)
	}
	if first.TrackingRef == second.TrackingRef {
		t.Fatal("tracking refs must be unique")
	}
}

func TestListOpenRidesOrderingAndFilters(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	driver := booking.RegisteredIdentity(1, string(models.UserTypeDriver))

	mk := func(origin, destination string, offset time.Duration, seats int) *models.Ride {
		ride, err := svc.CreateRide(ctx, booking.RideSpec{
			Owner: driver, Origin: origin, Destination: destination,
			DepartureTime: time.Now().Add(offset), TotalSeats: seats,
		})
		if err != nil {
			t.Fatalf("create ride: %v", err)
		}
		return ride
	}

	late := mk("North Campus", "City Center", 5*time.Hour, 2)
	early := mk("North Campus", "Airport", 1*time.Hour, 2)
	other := mk("South Campus", "City Center", 3*time.Hour, 2)

	// Fill a ride completely; it must drop out of the open listing.
	full := mk("North Campus", "City Center", 2*time.Hour, 1)
	req := mustCreateRequest(t, svc, full.ID, 7, 1)
	if _, err := svc.Decide(ctx, req.ID, booking.DecisionApprove, driverActor(1)); err != nil {
		t.Fatalf("fill ride: %v", err)
	}

	rides, err := svc.ListOpenRides(ctx, booking.RideFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rides) != 3 {
		t.Fatalf("expected 3 open rides, got %d", len(rides))
	}
	if rides[0].ID != early.ID || rides[1].ID != other.ID || rides[2].ID != late.ID {
		t.Fatalf("wrong order: %d %d %d", rides[0].ID, rides[1].ID, rides[2].ID)
	}

	// Equality filters are case-insensitive.
	rides, err = svc.ListOpenRides(ctx, booking.RideFilter{Origin: "north campus", Destination: "city center"})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(rides) != 1 || rides[0].ID != late.ID {
		t.Fatalf("expected only the late ride, got %+v", rides)
	}
}

func TestTrackRequest(t *testing.T) {
	svc, _ := newTestService()
	ride := mustCreateRide(t, svc, 1, 4)
	guest := booking.GuestIdentity("Kofi", "kofi@example.com")

	req, err := svc.CreateRequest(context.Background(), ride.ID, guest, 2)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	tracked, err := svc.TrackRequest(context.Background(), req.TrackingRef)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if tracked.ID != req.ID || tracked.Status != models.RequestStatusPending {
		t.Fatalf("wrong request tracked: %+v", tracked)
	}

	if _, err := svc.TrackRequest(context.Background(), "not-a-uuid"); !errors.Is(err, booking.ErrValidation) {
		t.Fatalf("expected ErrValidation for malformed ref, got %v", err)
	}
	if _, err := svc.TrackRequest(context.Background(), "1b4e28ba-2fa1-11d2-883f-0016d3cca427"); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown ref, got %v", err)
	}
}

func TestRequestsForRideAuthorization(t *testing.T) {
	svc, _ := newTestService()
	ride := mustCreateRide(t, svc, 1, 4)
	mustCreateRequest(t, svc, ride.ID, 2, 1)

	if _, err := svc.RequestsForRide(context.Background(), ride.ID, driverActor(42)); !errors.Is(err, booking.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	reqs, err := svc.RequestsForRide(context.Background(), ride.ID, driverActor(1))
	if err != nil {
		t.Fatalf("owner listing: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
}

func TestDeleteRideAuthorization(t *testing.T) {
	svc, _ := newTestService()
	ride := mustCreateRide(t, svc, 1, 4)

	if err := svc.DeleteRide(context.Background(), ride.ID, driverActor(42)); !errors.Is(err, booking.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := svc.DeleteRide(context.Background(), ride.ID, driverActor(1)); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.GetRide(context.Background(), ride.ID); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
