package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campuspool/campuspool-backend/internal/models"
)

// DecideResult reports how a decision landed and the state it produced.
type DecideResult struct {
	Outcome Outcome             `json:"outcome"`
	Request *models.RideRequest `json:"request"`
	Ride    *models.Ride        `json:"ride,omitempty"`
}

// Decide resolves a pending request. A denial never touches inventory. An
// approval re-checks availability at decision time and either consumes the
// seats together with the status flip, as one atomic unit, or converts the
// approval into an auto-denial when the ride can no longer carry the
// request. Concurrent approvals against the same ride serialize in the
// store; transient contention is retried a bounded number of times before
// surfacing ErrRetryable.
func (s *Service) Decide(ctx context.Context, requestID uint, decision Decision, actor Actor) (*DecideResult, error) {
	if decision != DecisionApprove && decision != DecisionDeny {
		return nil, fmt.Errorf("%w: unknown decision %q", ErrValidation, decision)
	}

	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	ride, err := s.store.GetRide(ctx, req.RideID)
	if err != nil {
		return nil, err
	}
	if !ownsRide(ride, actor) {
		return nil, ErrUnauthorized
	}
	if req.Status != models.RequestStatusPending {
		return nil, ErrInvalidTransition
	}

	if decision == DecisionDeny {
		if err := s.store.Deny(ctx, req.ID); err != nil {
			return nil, err
		}
		req.Status = models.RequestStatusDenied
		s.notifier.Notify(ctx, EntityRequest, req.ID, string(req.Status))
		return &DecideResult{Outcome: OutcomeDenied, Request: req}, nil
	}

	for attempt := 0; attempt < s.decideAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retryBackoff * time.Duration(attempt)):
			}
		}

		updated, err := s.store.Approve(ctx, req)
		switch {
		case err == nil:
			req.Status = models.RequestStatusApproved
			s.notifier.Notify(ctx, EntityRequest, req.ID, string(req.Status))
			s.notifier.Notify(ctx, EntityRide, updated.ID, "updated")
			return &DecideResult{Outcome: OutcomeApproved, Request: req, Ride: updated}, nil

		case errors.Is(err, ErrInsufficientSeats):
			// Not enough seats left at decision time: the approval
			// becomes a denial rather than an error.
			if err := s.store.Deny(ctx, req.ID); err != nil {
				return nil, err
			}
			req.Status = models.RequestStatusDenied
			s.notifier.Notify(ctx, EntityRequest, req.ID, string(req.Status))
			return &DecideResult{Outcome: OutcomeAutoDenied, Request: req, Ride: ride}, nil

		case errors.Is(err, ErrRetryable):
			continue

		default:
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: decision did not commit after %d attempts", ErrRetryable, s.decideAttempts)
}
