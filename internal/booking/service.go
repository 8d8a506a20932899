package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/campuspool/campuspool-backend/internal/models"
	"github.com/google/uuid"
)

// Service owns ride inventory and the request ledger. All seat mutations
// flow through Decide.
type Service struct {
	store     Store
	estimator Estimator
	notifier  Notifier

	decideAttempts int
	retryBackoff   time.Duration
}

func NewService(store Store, estimator Estimator, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		store:          store,
		estimator:      estimator,
		notifier:       notifier,
		decideAttempts: 3,
		retryBackoff:   50 * time.Millisecond,
	}
}

// CreateRide validates the spec, asks the estimator for arrival time and
// per-seat cost, and opens the ride with all seats available.
func (s *Service) CreateRide(ctx context.Context, spec RideSpec) (*models.Ride, error) {
	if spec.TotalSeats <= 0 {
		return nil, fmt.Errorf("%w: total seats must be positive", ErrValidation)
	}
	if spec.Origin == "" || spec.Destination == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", ErrValidation)
	}
	if spec.DepartureTime.Before(time.Now()) {
		return nil, fmt.Errorf("%w: departure time must be in the future", ErrValidation)
	}
	if !spec.Owner.Registered() && (spec.Owner.ContactName == "" || spec.Owner.ContactEmail == "") {
		return nil, fmt.Errorf("%w: guest rides need contact name and email", ErrValidation)
	}
	if spec.Owner.Registered() && spec.Owner.UserType != string(models.UserTypeDriver) {
		return nil, fmt.Errorf("%w: only drivers can offer rides", ErrUnauthorized)
	}

	est := s.estimator.Estimate(spec.Origin, spec.Destination, spec.DepartureTime, spec.TotalSeats)
	if est.ArrivalTime.Before(spec.DepartureTime) {
		return nil, fmt.Errorf("%w: arrival time precedes departure", ErrValidation)
	}
	if est.CostPerPerson < 0 {
		return nil, fmt.Errorf("%w: cost per person must not be negative", ErrValidation)
	}

	ride := &models.Ride{
		DriverID:       spec.Owner.UserID,
		ContactName:    spec.Owner.ContactName,
		ContactEmail:   spec.Owner.ContactEmail,
		Origin:         spec.Origin,
		Destination:    spec.Destination,
		DepartureTime:  spec.DepartureTime,
		ArrivalTime:    est.ArrivalTime,
		TotalSeats:     spec.TotalSeats,
		AvailableSeats: spec.TotalSeats,
		CostPerPerson:  est.CostPerPerson,
	}
	if !spec.Owner.Registered() {
		ride.ManageToken = uuid.NewString()
	}

	if err := s.store.CreateRide(ctx, ride); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, EntityRide, ride.ID, "open")
	return ride, nil
}

// ListOpenRides returns rides with seats left and a future departure,
// soonest first.
func (s *Service) ListOpenRides(ctx context.Context, filter RideFilter) ([]models.Ride, error) {
	return s.store.ListOpenRides(ctx, filter)
}

func (s *Service) GetRide(ctx context.Context, id uint) (*models.Ride, error) {
	return s.store.GetRide(ctx, id)
}

func (s *Service) RidesForDriver(ctx context.Context, driverID uint) ([]models.Ride, error) {
	return s.store.RidesForDriver(ctx, driverID)
}

// DeleteRide removes a ride; only its owner may do so.
func (s *Service) DeleteRide(ctx context.Context, rideID uint, actor Actor) error {
	ride, err := s.store.GetRide(ctx, rideID)
	if err != nil {
		return err
	}
	if !ownsRide(ride, actor) {
		return ErrUnauthorized
	}
	if err := s.store.DeleteRide(ctx, rideID); err != nil {
		return err
	}
	s.notifier.Notify(ctx, EntityRide, rideID, "deleted")
	return nil
}

// ownsRide reports whether the actor is the ride's owner. Registered
// owners match on user id, guest owners on the manage token.
func ownsRide(ride *models.Ride, actor Actor) bool {
	if ride.DriverID != nil {
		return actor.UserID != nil && *actor.UserID == *ride.DriverID
	}
	return actor.ManageToken != "" && actor.ManageToken == ride.ManageToken
}
