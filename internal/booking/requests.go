package booking

import (
	"context"
	"fmt"

	"github.com/campuspool/campuspool-backend/internal/models"
	"github.com/google/uuid"
)

// CreateRequest opens a pending request for seats on a ride. Registered
// requesters get at most one request per ride; guests are not deduplicated.
func (s *Service) CreateRequest(ctx context.Context, rideID uint, requester Identity, seats int) (*models.RideRequest, error) {
	if seats <= 0 {
		return nil, fmt.Errorf("%w: seats must be positive", ErrValidation)
	}
	if !requester.Registered() && (requester.ContactName == "" || requester.ContactEmail == "") {
		return nil, fmt.Errorf("%w: guest requests need contact name and email", ErrValidation)
	}

	if _, err := s.store.GetRide(ctx, rideID); err != nil {
		return nil, err
	}

	req := &models.RideRequest{
		RideID:         rideID,
		RequesterID:    requester.UserID,
		ContactName:    requester.ContactName,
		ContactEmail:   requester.ContactEmail,
		SeatsRequested: seats,
		Status:         models.RequestStatusPending,
		TrackingRef:    uuid.NewString(),
	}

	if err := s.store.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, EntityRequest, req.ID, string(req.Status))
	return req, nil
}

// RequestsForRide lists a ride's requests for its owner.
func (s *Service) RequestsForRide(ctx context.Context, rideID uint, actor Actor) ([]models.RideRequest, error) {
	ride, err := s.store.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ownsRide(ride, actor) {
		return nil, ErrUnauthorized
	}
	return s.store.RequestsForRide(ctx, rideID)
}

// RequestsForRequester lists a registered user's own requests.
func (s *Service) RequestsForRequester(ctx context.Context, requesterID uint) ([]models.RideRequest, error) {
	return s.store.RequestsForRequester(ctx, requesterID)
}

// TrackRequest resolves a request by its tracking reference.
func (s *Service) TrackRequest(ctx context.Context, ref string) (*models.RideRequest, error) {
	if _, err := uuid.Parse(ref); err != nil {
		return nil, fmt.Errorf("%w: malformed tracking reference", ErrValidation)
	}
	return s.store.GetRequestByRef(ctx, ref)
}
