package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/campuspool/campuspool-backend/internal/booking"
	"github.com/campuspool/campuspool-backend/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// GormStore persists rides and requests in Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateRide(ctx context.Context, ride *models.Ride) error {
	return translate(s.db.WithContext(ctx).Create(ride).Error)
}

func (s *GormStore) GetRide(ctx context.Context, id uint) (*models.Ride, error) {
	var ride models.Ride
	if err := s.db.WithContext(ctx).Preload("Driver").First(&ride, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ride, nil
}

func (s *GormStore) ListOpenRides(ctx context.Context, filter booking.RideFilter) ([]models.Ride, error) {
	var rides []models.Ride
	query := s.db.WithContext(ctx).Preload("Driver").
		Where("available_seats > 0 AND departure_time > ?", time.Now()).
		Order("departure_time ASC")

	if filter.Origin != "" {
		query = query.Where("LOWER(origin) = ?", strings.ToLower(filter.Origin))
	}
	if filter.Destination != "" {
		query = query.Where("LOWER(destination) = ?", strings.ToLower(filter.Destination))
	}

	if err := query.Find(&rides).Error; err != nil {
		return nil, translate(err)
	}
	return rides, nil
}

func (s *GormStore) RidesForDriver(ctx context.Context, driverID uint) ([]models.Ride, error) {
	var rides []models.Ride
	if err := s.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("departure_time DESC").
		Find(&rides).Error; err != nil {
		return nil, translate(err)
	}
	return rides, nil
}

func (s *GormStore) DeleteRide(ctx context.Context, id uint) error {
	return translate(s.db.WithContext(ctx).Delete(&models.Ride{}, id).Error)
}

func (s *GormStore) CreateRequest(ctx context.Context, req *models.RideRequest) error {
	if req.RequesterID != nil {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.RideRequest{}).
			Where("ride_id = ? AND requester_id = ?", req.RideID, *req.RequesterID).
			Count(&count).Error
		if err != nil {
			return translate(err)
		}
		if count > 0 {
			return booking.ErrDuplicateRequest
		}
	}
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		// The unique index backstops the pre-check under concurrency.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return booking.ErrDuplicateRequest
		}
		return translate(err)
	}
	return nil
}

func (s *GormStore) GetRequest(ctx context.Context, id uint) (*models.RideRequest, error) {
	var req models.RideRequest
	if err := s.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (s *GormStore) GetRequestByRef(ctx context.Context, ref string) (*models.RideRequest, error) {
	var req models.RideRequest
	if err := s.db.WithContext(ctx).Preload("Ride").
		Where("tracking_ref = ?", ref).
		First(&req).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (s *GormStore) RequestsForRide(ctx context.Context, rideID uint) ([]models.RideRequest, error) {
	var reqs []models.RideRequest
	if err := s.db.WithContext(ctx).Preload("Requester").
		Where("ride_id = ?", rideID).
		Order("created_at ASC").
		Find(&reqs).Error; err != nil {
		return nil, translate(err)
	}
	return reqs, nil
}

func (s *GormStore) RequestsForRequester(ctx context.Context, requesterID uint) ([]models.RideRequest, error) {
	var reqs []models.RideRequest
	if err := s.db.WithContext(ctx).Preload("Ride").
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, translate(err)
	}
	return reqs, nil
}

// Approve flips the request to approved and decrements the ride's seats in
// one transaction. The seat decrement is a single conditional UPDATE
// guarded by available_seats >= n, so two concurrent approvals can never
// both consume the same seats: the loser's UPDATE matches zero rows and
// the transaction rolls back with ErrInsufficientSeats.
func (s *GormStore) Approve(ctx context.Context, req *models.RideRequest) (*models.Ride, error) {
	var ride models.Ride
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Ride{}).
			Where("id = ? AND available_seats >= ?", req.RideID, req.SeatsRequested).
			UpdateColumn("available_seats", gorm.Expr("available_seats - ?", req.SeatsRequested))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&models.Ride{}).Where("id = ?", req.RideID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return booking.ErrNotFound
			}
			return booking.ErrInsufficientSeats
		}

		res = tx.Model(&models.RideRequest{}).
			Where("id = ? AND status = ?", req.ID, models.RequestStatusPending).
			Update("status", models.RequestStatusApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return booking.ErrInvalidTransition
		}

		return tx.First(&ride, req.RideID).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &ride, nil
}

// Deny flips a pending request to denied. Denials never touch inventory.
func (s *GormStore) Deny(ctx context.Context, requestID uint) error {
	res := s.db.WithContext(ctx).Model(&models.RideRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
		Update("status", models.RequestStatusDenied)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return booking.ErrInvalidTransition
	}
	return nil
}

// translate maps driver errors onto the booking taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, booking.ErrNotFound) ||
		errors.Is(err, booking.ErrInsufficientSeats) ||
		errors.Is(err, booking.ErrInvalidTransition) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return booking.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization failure, deadlock
			return booking.ErrRetryable
		case "23505": // unique violation
			return booking.ErrDuplicateRequest
		}
	}
	return err
}
