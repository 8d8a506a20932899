package handlers

import (
	"strconv"
	"time"

	"github.com/campuspool/campuspool-backend/internal/booking"
	"github.com/gin-gonic/gin"
)

// GetEstimate quotes arrival time and per-seat cost for a prospective ride
// without creating anything
func GetEstimate(estimator booking.Estimator) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Query("origin")
		destination := c.Query("destination")
		if origin == "" || destination == "" {
			c.JSON(400, gin.H{"error": "origin and destination are required"})
			return
		}

		departure, err := time.Parse(time.RFC3339, c.Query("departureTime"))
		if err != nil {
			c.JSON(400, gin.H{"error": "departureTime must be RFC3339"})
			return
		}

		seats := 1
		if raw := c.Query("seats"); raw != "" {
			seats, err = strconv.Atoi(raw)
			if err != nil || seats <= 0 {
				c.JSON(400, gin.H{"error": "seats must be a positive integer"})
				return
			}
		}

		est := estimator.Estimate(origin, destination, departure, seats)

		c.JSON(200, gin.H{
			"origin":        origin,
			"destination":   destination,
			"departureTime": departure,
			"arrivalTime":   est.ArrivalTime,
			"costPerPerson": est.CostPerPerson,
		})
	}
}
