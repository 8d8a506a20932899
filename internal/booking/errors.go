package booking

import "errors"

var (
	// ErrValidation means the input was rejected before any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means a referenced ride or request does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition means the request already left pending.
	ErrInvalidTransition = errors.New("request already resolved")
	// ErrInsufficientSeats means an approval would take availability below
	// zero. The coordinator converts it into an auto-denial.
	ErrInsufficientSeats = errors.New("insufficient seats")
	// ErrDuplicateRequest means the registered requester already holds a
	// request against the ride.
	ErrDuplicateRequest = errors.New("duplicate request")
	// ErrRetryable means transient contention; the caller may retry.
	ErrRetryable = errors.New("temporary contention, try again")
	// ErrUnauthorized means the actor does not own the ride.
	ErrUnauthorized = errors.New("not allowed")
)
