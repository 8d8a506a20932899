package utils

import (
	"hash/fnv"
	"math"
	"strings"
	"time"

	"github.com/campuspool/campuspool-backend/internal/booking"
)

const (
	// Estimation defaults. Cost is the fuel for the trip split across the
	// offered seats.
	AverageSpeedKmh    = 60.0
	FuelPricePerLiter  = 1.80
	KmPerLiter         = 12.0
	MinimumCostPerSeat = 0.50
)

// RouteEstimator produces arrival time and per-seat cost for a route. The
// distance is a deterministic stand-in for a routing provider: campus
// locations are free-text labels, so the same pair always yields the same
// quote.
type RouteEstimator struct {
	AverageSpeed float64
	FuelPrice    float64
	Consumption  float64
}

func NewRouteEstimator() *RouteEstimator {
	return &RouteEstimator{
		AverageSpeed: AverageSpeedKmh,
		FuelPrice:    FuelPricePerLiter,
		Consumption:  KmPerLiter,
	}
}

func (e *RouteEstimator) Estimate(origin, destination string, departure time.Time, seats int) booking.Estimate {
	if seats < 1 {
		seats = 1
	}

	distance := RouteDistanceKm(origin, destination)
	travel := time.Duration(distance / e.AverageSpeed * float64(time.Hour))
	fuelCost := distance * e.FuelPrice / e.Consumption
	costPerSeat := math.Max(fuelCost/float64(seats), MinimumCostPerSeat)

	return booking.Estimate{
		ArrivalTime:   departure.Add(travel),
		CostPerPerson: math.Round(costPerSeat*100) / 100,
	}
}

// RouteDistanceKm derives a stable pseudo-distance in the 5-50km range
// from the location labels.
func RouteDistanceKm(origin, destination string) float64 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(origin))))
	h.Write([]byte("|"))
	h.Write([]byte(strings.ToLower(strings.TrimSpace(destination))))
	return 5 + float64(h.Sum32()%46)
}
