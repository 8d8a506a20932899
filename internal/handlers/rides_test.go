package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campuspool/campuspool-backend/internal/booking"
	"github.com/campuspool/campuspool-backend/internal/store"
	"github.com/campuspool/campuspool-backend/pkg/utils"
	"github.com/gin-gonic/gin"
)

func newTestRouter() (*gin.Engine, *booking.Service) {
	gin.SetMode(gin.TestMode)
	svc := booking.NewService(store.NewMemStore(), utils.NewRouteEstimator(), booking.NopNotifier{})

	r := gin.New()
	api := r.Group("/api")
	api.GET("/rides", GetOpenRides(svc))
	api.POST("/rides", CreateRide(svc))
	api.POST("/rides/:rideId/requests", CreateRequest(svc))
	api.GET("/requests/track/:ref", TrackRequest(svc))
	api.POST("/requests/:id/decision", DecideRequest(svc))
	return r, svc
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGuestRideLifecycle(t *testing.T) {
	r, _ := newTestRouter()

	// A guest posts a ride and receives a manage token.
	w := doJSON(r, "POST", "/api/rides", gin.H{
		"origin":        "North Campus",
		"destination":   "City Center",
		"departureTime": time.Now().Add(3 * time.Hour).Format(time.RFC3339),
		"totalSeats":    3,
		"contactName":   "Ama",
		"contactEmail":  "ama@example.com",
	})
	if w.Code != 201 {
		t.Fatalf("create ride: status %d body %s", w.Code, w.Body.String())
	}
	var created struct {
		Ride struct {
			ID             uint `json:"ID"`
			AvailableSeats int  `json:"availableSeats"`
		} `json:"ride"`
		ManageToken string `json:"manageToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ManageToken == "" {
		t.Fatal("expected a manage token for a guest ride")
	}
	if created.Ride.AvailableSeats != 3 {
		t.Fatalf("expected 3 available seats, got %d", created.Ride.AvailableSeats)
	}

	// A guest requests two seats and gets a tracking reference back.
	w = doJSON(r, "POST", fmt.Sprintf("/api/rides/%d/requests", created.Ride.ID), gin.H{
		"seats":        2,
		"contactName":  "Kofi",
		"contactEmail": "kofi@example.com",
	})
	if w.Code != 201 {
		t.Fatalf("create request: status %d body %s", w.Code, w.Body.String())
	}
	var reqResp struct {
		Request struct {
			ID uint `json:"ID"`
		} `json:"request"`
		TrackingRef string `json:"trackingRef"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reqResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reqResp.TrackingRef == "" {
		t.Fatal("expected a tracking reference")
	}

	// Deciding without the manage token is rejected.
	w = doJSON(r, "POST", fmt.Sprintf("/api/requests/%d/decision", reqResp.Request.ID), gin.H{"decision": "approve"})
	if w.Code != 403 {
		t.Fatalf("expected 403 without token, got %d", w.Code)
	}

	// With the token the approval lands and consumes the seats.
	w = doJSON(r, "POST", fmt.Sprintf("/api/requests/%d/decision?manage_token=%s", reqResp.Request.ID, created.ManageToken), gin.H{"decision": "approve"})
	if w.Code != 200 {
		t.Fatalf("decide: status %d body %s", w.Code, w.Body.String())
	}
	var decided struct {
		Outcome string `json:"outcome"`
		Ride    struct {
			AvailableSeats int `json:"availableSeats"`
		} `json:"ride"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &decided); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decided.Outcome != string(booking.OutcomeApproved) {
		t.Fatalf("expected approved, got %s", decided.Outcome)
	}
	if decided.Ride.AvailableSeats != 1 {
		t.Fatalf("expected 1 seat left, got %d", decided.Ride.AvailableSeats)
	}

	// The tracking endpoint reflects the new status.
	req := httptest.NewRequest("GET", "/api/requests/track/"+reqResp.TrackingRef, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("track: status %d", w.Code)
	}
	var tracked struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tracked); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tracked.Status != "approved" {
		t.Fatalf("expected approved, got %s", tracked.Status)
	}
}

func TestCreateRideRejectsBadInput(t *testing.T) {
	r, _ := newTestRouter()

	// Missing required fields.
	w := doJSON(r, "POST", "/api/rides", gin.H{"origin": "North Campus"})
	if w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	// Guest without contact details.
	w = doJSON(r, "POST", "/api/rides", gin.H{
		"origin":        "North Campus",
		"destination":   "City Center",
		"departureTime": time.Now().Add(time.Hour).Format(time.RFC3339),
		"totalSeats":    3,
	})
	if w.Code != 400 {
		t.Fatalf("expected 400 for guest without contact, got %d body %s", w.Code, w.Body.String())
	}
}

func TestOpenRidesListing(t *testing.T) {
	r, svc := newTestRouter()

	_, err := svc.CreateRide(context.Background(), booking.RideSpec{
		Owner:         booking.GuestIdentity("Ama", "ama@example.com"),
		Origin:        "North Campus",
		Destination:   "City Center",
		DepartureTime: time.Now().Add(time.Hour),
		TotalSeats:    2,
	})
	if err != nil {
		t.Fatalf("seed ride: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/rides?origin=north+campus", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("list: status %d", w.Code)
	}
	var rides []struct {
		Origin string `json:"origin"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &rides); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rides) != 1 || rides[0].Origin != "North Campus" {
		t.Fatalf("unexpected listing: %+v", rides)
	}

	// No match for a different origin.
	req = httptest.NewRequest("GET", "/api/rides?origin=south+campus", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("list: status %d", w.Code)
	}
	if body := w.Body.String(); body != "null" && body != "[]" {
		t.Fatalf("expected empty listing, got %s", body)
	}
}
