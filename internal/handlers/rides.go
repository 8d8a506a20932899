package handlers

import (
	"strconv"
	"time"

	"github.com/campuspool/campuspool-backend/internal/booking"
	"github.com/gin-gonic/gin"
)

// CreateRide handles ride posting by a registered driver or a guest
func CreateRide(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Origin        string    `json:"origin" binding:"required"`
			Destination   string    `json:"destination" binding:"required"`
			DepartureTime time.Time `json:"departureTime" binding:"required"`
			TotalSeats    int       `json:"totalSeats" binding:"required"`
			ContactName   string    `json:"contactName"`
			ContactEmail  string    `json:"contactEmail"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		spec := booking.RideSpec{
			Owner:         identityFrom(c, input.ContactName, input.ContactEmail),
			Origin:        input.Origin,
			Destination:   input.Destination,
			DepartureTime: input.DepartureTime,
			TotalSeats:    input.TotalSeats,
		}

		ride, err := svc.CreateRide(c.Request.Context(), spec)
		if err != nil {
			respondError(c, err)
			return
		}

		response := gin.H{"ride": ride}
		if ride.GuestOwned() {
			// The manage token is shown exactly once; losing it means
			// losing control of the ride.
			response["manageToken"] = ride.ManageToken
		}

		c.JSON(201, response)
	}
}

// GetOpenRides retrieves rides with seats left, optionally filtered by
// origin and destination
func GetOpenRides(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := booking.RideFilter{
			Origin:      c.Query("origin"),
			Destination: c.Query("destination"),
		}

		rides, err := svc.ListOpenRides(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, rides)
	}
}

// GetMyRides retrieves all rides posted by the authenticated driver
func GetMyRides(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		rides, err := svc.RidesForDriver(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, rides)
	}
}

// DeleteRide removes a ride; only its owner may do so
func DeleteRide(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid ride ID"})
			return
		}

		if err := svc.DeleteRide(c.Request.Context(), uint(rideID), actorFrom(c)); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Ride successfully deleted"})
	}
}
