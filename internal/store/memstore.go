package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/campuspool/campuspool-backend/internal/booking"
	"github.com/campuspool/campuspool-backend/internal/models"
)

// MemStore is an in-memory Store used by tests. A single mutex serializes
// writers, which gives Approve the same all-or-nothing semantics as the
// transactional Postgres store.
type MemStore struct {
	mu            sync.Mutex
	rides         map[uint]*models.Ride
	requests      map[uint]*models.RideRequest
	nextRideID    uint
	nextRequestID uint
}

func NewMemStore() *MemStore {
	return &MemStore{
		rides:    make(map[uint]*models.Ride),
		requests: make(map[uint]*models.RideRequest),
	}
}

func (s *MemStore) CreateRide(_ context.Context, ride *models.Ride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextRideID++
	ride.ID = s.nextRideID
	ride.CreatedAt = time.Now()
	cp := *ride
	s.rides[ride.ID] = &cp
	return nil
}

func (s *MemStore) GetRide(_ context.Context, id uint) (*models.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ride, ok := s.rides[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *ride
	return &cp, nil
}

func (s *MemStore) ListOpenRides(_ context.Context, filter booking.RideFilter) ([]models.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var rides []models.Ride
	for _, ride := range s.rides {
		if ride.AvailableSeats <= 0 || !ride.DepartureTime.After(now) {
			continue
		}
		if filter.Origin != "" && !strings.EqualFold(filter.Origin, ride.Origin) {
			continue
		}
		if filter.Destination != "" && !strings.EqualFold(filter.Destination, ride.Destination) {
			continue
		}
		rides = append(rides, *ride)
	}
	sort.Slice(rides, func(i, j int) bool {
		return rides[i].DepartureTime.Before(rides[j].DepartureTime)
	})
	return rides, nil
}

func (s *MemStore) RidesForDriver(_ context.Context, driverID uint) ([]models.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rides []models.Ride
	for _, ride := range s.rides {
		if ride.DriverID != nil && *ride.DriverID == driverID {
			rides = append(rides, *ride)
		}
	}
	sort.Slice(rides, func(i, j int) bool {
		return rides[i].DepartureTime.After(rides[j].DepartureTime)
	})
	return rides, nil
}

func (s *MemStore) DeleteRide(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rides[id]; !ok {
		return booking.ErrNotFound
	}
	delete(s.rides, id)
	return nil
}

func (s *MemStore) CreateRequest(_ context.Context, req *models.RideRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rides[req.RideID]; !ok {
		return booking.ErrNotFound
	}
	if req.RequesterID != nil {
		for _, existing := range s.requests {
			if existing.RideID == req.RideID &&
				existing.RequesterID != nil && *existing.RequesterID == *req.RequesterID {
				return booking.ErrDuplicateRequest
			}
		}
	}

	s.nextRequestID++
	req.ID = s.nextRequestID
	req.CreatedAt = time.Now()
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *MemStore) GetRequest(_ context.Context, id uint) (*models.RideRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (s *MemStore) GetRequestByRef(_ context.Context, ref string) (*models.RideRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, req := range s.requests {
		if req.TrackingRef == ref {
			cp := *req
			return &cp, nil
		}
	}
	return nil, booking.ErrNotFound
}

func (s *MemStore) RequestsForRide(_ context.Context, rideID uint) ([]models.RideRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reqs []models.RideRequest
	for _, req := range s.requests {
		if req.RideID == rideID {
			reqs = append(reqs, *req)
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].ID < reqs[j].ID })
	return reqs, nil
}

func (s *MemStore) RequestsForRequester(_ context.Context, requesterID uint) ([]models.RideRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reqs []models.RideRequest
	for _, req := range s.requests {
		if req.RequesterID != nil && *req.RequesterID == requesterID {
			reqs = append(reqs, *req)
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].ID > reqs[j].ID })
	return reqs, nil
}

func (s *MemStore) Approve(_ context.Context, req *models.RideRequest) (*models.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ride, ok := s.rides[req.RideID]
	if !ok {
		return nil, booking.ErrNotFound
	}
	stored, ok := s.requests[req.ID]
	if !ok {
		return nil, booking.ErrNotFound
	}
	if stored.Status != models.RequestStatusPending {
		return nil, booking.ErrInvalidTransition
	}
	if ride.AvailableSeats < stored.SeatsRequested {
		return nil, booking.ErrInsufficientSeats
	}

	ride.AvailableSeats -= stored.SeatsRequested
	stored.Status = models.RequestStatusApproved
	cp := *ride
	return &cp, nil
}

func (s *MemStore) Deny(_ context.Context, requestID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[requestID]
	if !ok {
		return booking.ErrNotFound
	}
	if req.Status != models.RequestStatusPending {
		return booking.ErrInvalidTransition
	}
	req.Status = models.RequestStatusDenied
	return nil
}
