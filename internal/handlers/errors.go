package handlers

import (
	"errors"

	"github.com/campuspool/campuspool-backend/internal/booking"
	"github.com/gin-gonic/gin"
)

// respondError maps booking errors onto HTTP responses. Contention gets a
// generic try-again message, everything else names the violated rule.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation):
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrUnauthorized):
		c.JSON(403, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidTransition):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrDuplicateRequest):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrRetryable):
		c.JSON(503, gin.H{"error": "Could not complete the decision, please try again"})
	default:
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}

// identityFrom builds the caller's identity from the auth middleware
// context plus any guest contact details supplied in the request body.
func identityFrom(c *gin.Context, contactName, contactEmail string) booking.Identity {
	if userID := c.GetUint("userId"); userID != 0 {
		return booking.RegisteredIdentity(userID, c.GetString("userType"))
	}
	return booking.GuestIdentity(contactName, contactEmail)
}

// actorFrom builds the acting party for owner-gated operations. Guest ride
// owners authenticate with the manage token handed out at creation.
func actorFrom(c *gin.Context) booking.Actor {
	actor := booking.Actor{ManageToken: c.Query("manage_token")}
	if userID := c.GetUint("userId"); userID != 0 {
		actor.Identity = booking.RegisteredIdentity(userID, c.GetString("userType"))
	}
	return actor
}
