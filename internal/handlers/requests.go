package handlers

import (
	"strconv"

	"github.com/campuspool/campuspool-backend/internal/booking"
	"github.com/gin-gonic/gin"
)

// CreateRequest handles a passenger or guest asking for seats on a ride
func CreateRequest(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, err := strconv.ParseUint(c.Param("rideId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid ride ID"})
			return
		}

		var input struct {
			Seats        int    `json:"seats" binding:"required"`
			ContactName  string `json:"contactName"`
			ContactEmail string `json:"contactEmail"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		requester := identityFrom(c, input.ContactName, input.ContactEmail)
		req, err := svc.CreateRequest(c.Request.Context(), uint(rideID), requester, input.Seats)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, gin.H{
			"request":     req,
			"trackingRef": req.TrackingRef,
		})
	}
}

// GetRideRequests lists the requests against a ride for its owner
func GetRideRequests(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, err := strconv.ParseUint(c.Param("rideId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid ride ID"})
			return
		}

		requests, err := svc.RequestsForRide(c.Request.Context(), uint(rideID), actorFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, requests)
	}
}

// GetMyRequests lists the authenticated user's own seat requests
func GetMyRequests(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		requests, err := svc.RequestsForRequester(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, requests)
	}
}

// TrackRequest resolves a request by the tracking reference handed out at
// creation, so guests can poll their status without an account
func TrackRequest(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := svc.TrackRequest(c.Request.Context(), c.Param("ref"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"requestId": req.ID,
			"rideId":    req.RideID,
			"seats":     req.SeatsRequested,
			"status":    req.Status,
		})
	}
}

// DecideRequest lets the ride's owner approve or deny a pending request
func DecideRequest(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid request ID"})
			return
		}

		var input struct {
			Decision string `json:"decision" binding:"required,oneof=approve deny"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		result, err := svc.Decide(c.Request.Context(), uint(requestID), booking.Decision(input.Decision), actorFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}

		response := gin.H{
			"outcome": result.Outcome,
			"request": gin.H{
				"id":     result.Request.ID,
				"status": result.Request.Status,
			},
		}
		if result.Ride != nil {
			response["ride"] = gin.H{
				"id":             result.Ride.ID,
				"availableSeats": result.Ride.AvailableSeats,
			}
		}

		c.JSON(200, response)
	}
}
