package booking

import (
	"context"
	"time"

	"github.com/campuspool/campuspool-backend/internal/models"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDeny    Decision = "deny"
)

type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeDenied   Outcome = "denied"
	// OutcomeAutoDenied is an approval attempt that found too few seats
	// left and was converted into a denial.
	OutcomeAutoDenied Outcome = "auto_denied"
)

// RideSpec is the input to CreateRide. Arrival time and cost come from the
// estimator, not the caller.
type RideSpec struct {
	Owner         Identity
	Origin        string
	Destination   string
	DepartureTime time.Time
	TotalSeats    int
}

// RideFilter narrows ListOpenRides. Empty fields match everything.
type RideFilter struct {
	Origin      string
	Destination string
}

// Estimate is the estimator's answer for a prospective ride.
type Estimate struct {
	ArrivalTime   time.Time `json:"arrivalTime"`
	CostPerPerson float64   `json:"costPerPerson"`
}

// Estimator produces an arrival time and a per-seat cost for a route. The
// service calls it once at ride creation and persists the result.
type Estimator interface {
	Estimate(origin, destination string, departure time.Time, seats int) Estimate
}

// Notifier receives one event per committed mutation. Delivery semantics
// are the transport's problem, not ours.
type Notifier interface {
	Notify(ctx context.Context, entityType string, entityID uint, state string)
}

const (
	EntityRide    = "ride"
	EntityRequest = "request"
)

// MultiNotifier fans a change event out to several transports.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, entityType string, entityID uint, state string) {
	for _, n := range m {
		n.Notify(ctx, entityType, entityID, state)
	}
}

// NopNotifier drops events.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, uint, string) {}

// Store is the persistence boundary for rides and requests. Approve must
// apply the status flip and the seat decrement as one atomic unit and
// return ErrInsufficientSeats, without changes, when capacity is short.
type Store interface {
	CreateRide(ctx context.Context, ride *models.Ride) error
	GetRide(ctx context.Context, id uint) (*models.Ride, error)
	ListOpenRides(ctx context.Context, filter RideFilter) ([]models.Ride, error)
	RidesForDriver(ctx context.Context, driverID uint) ([]models.Ride, error)
	DeleteRide(ctx context.Context, id uint) error

	CreateRequest(ctx context.Context, req *models.RideRequest) error
	GetRequest(ctx context.Context, id uint) (*models.RideRequest, error)
	GetRequestByRef(ctx context.Context, ref string) (*models.RideRequest, error)
	RequestsForRide(ctx context.Context, rideID uint) ([]models.RideRequest, error)
	RequestsForRequester(ctx context.Context, requesterID uint) ([]models.RideRequest, error)

	Approve(ctx context.Context, req *models.RideRequest) (*models.Ride, error)
	Deny(ctx context.Context, requestID uint) error
}
