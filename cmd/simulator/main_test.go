package main

import (
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ukydev/carcare-booking/internal/auth"
	"github.com/ukydev/carcare-booking/internal/catalog"
	"github.com/ukydev/carcare-booking/internal/events"
	"github.com/ukydev/carcare-booking/internal/handlers"
	"github.com/ukydev/carcare-booking/internal/mapping"
	"github.com/ukydev/carcare-booking/internal/middleware"
	"github.com/ukydev/carcare-booking/internal/orders"
	"github.com/ukydev/carcare-booking/internal/session"
)

func newBookingServer(t *testing.T) *httptest.Server {
	t.Helper()
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	cat := catalog.Default()
	store := session.NewStore(cat, time.Hour)
	processor := orders.NewProcessor(events.NoopPublisher{}, orders.Config{MaxAttempts: 1})
	h := &handlers.Handlers{
		Sessions: handlers.NewSessionHandler(authService, store),
		Catalog:  handlers.NewCatalogHandler(cat),
		Booking:  handlers.NewBookingHandler(store, processor, 5*time.Second),
		Location: handlers.NewLocationHandler(store, mapping.NewResolver()),
	}
	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(middleware.NewAuthMiddleware(authService, store).Authenticate(mux))
	t.Cleanup(srv.Close)
	return srv
}

func TestJitterLocation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := Location{Lat: 25.2697, Lon: 55.2962}
	for i := 0; i < 100; i++ {
		loc := jitterLocation(rng, base, 3000)
		if math.Abs(loc.Lat-base.Lat) > 0.03 {
			t.Errorf("Latitude out of expected range: %f", loc.Lat)
		}
		if math.Abs(loc.Lon-base.Lon) > 0.03 {
			t.Errorf("Longitude out of expected range: %f", loc.Lon)
		}
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("SIM_TEST_INT", "7")
	if got := envInt("SIM_TEST_INT", 3); got != 7 {
		t.Errorf("Expected 7, got %d", got)
	}
	t.Setenv("SIM_TEST_INT", "zero")
	if got := envInt("SIM_TEST_INT", 3); got != 3 {
		t.Errorf("Expected fallback 3, got %d", got)
	}
	t.Setenv("SIM_TEST_INT", "0")
	if got := envInt("SIM_TEST_INT", 3); got != 3 {
		t.Errorf("Expected fallback 3 for non-positive value, got %d", got)
	}
}

func TestBook_PopularLocation(t *testing.T) {
	srv := newBookingServer(t)
	c := &customer{
		apiURL: srv.URL + "/api",
		client: srv.Client(),
		rng:    rand.New(rand.NewSource(42)),
	}

	ref, err := c.book(3)
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if !strings.HasPrefix(ref, "UAE-CS-") {
		t.Errorf("Unexpected reference %q", ref)
	}
}

func TestBook_MapCredential(t *testing.T) {
	srv := newBookingServer(t)
	c := &customer{
		apiURL:        srv.URL + "/api",
		client:        srv.Client(),
		mapCredential: "pk.test",
		rng:           rand.New(rand.NewSource(7)),
	}

	ref, err := c.book(1)
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if ref == "" {
		t.Error("Expected a confirmation reference")
	}
}

func TestCall_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("Expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		http.Error(w, "Session expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := &customer{apiURL: srv.URL, client: srv.Client(), token: "tok"}
	err := c.call(http.MethodGet, "/booking", nil, nil)
	apiErr, ok := err.(*apiError)
	if !ok {
		t.Fatalf("Expected *apiError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Body != "Session expired" {
		t.Errorf("Unexpected error %+v", apiErr)
	}
}
