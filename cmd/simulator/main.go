package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Location represents a geographical location with latitude and longitude coordinates.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type brand struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Models []string `json:"models"`
}

type vehicleOptions struct {
	Brands []brand  `json:"brands"`
	Years  []string `json:"years"`
}

type dateOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type scheduleOptions struct {
	Dates            []dateOption `json:"dates"`
	TimeSlots        []string     `json:"time_slots"`
	PopularLocations []string     `json:"popular_locations"`
	MapCenter        Location     `json:"map_center"`
}

type offering struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	UnitPrice json.Number `json:"unit_price"`
}

type snapshot struct {
	Step      int         `json:"step"`
	StepName  string      `json:"step_name"`
	ItemCount int         `json:"item_count"`
	Total     json.Number `json:"total"`
}

type confirmation struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

type checkoutResult struct {
	Confirmation *confirmation `json:"confirmation"`
	Status       string        `json:"status"`
	Message      string        `json:"message"`
}

// apiError is a non-2xx answer from the booking API.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Body)
}

// jitterLocation moves base by up to meters in each direction.
func jitterLocation(rng *rand.Rand, base Location, meters float64) Location {
	latMetersPerDeg := 111320.0
	lonMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rng.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLon := (rng.Float64()*2 - 1) * (meters / lonMetersPerDeg)
	return Location{Lat: base.Lat + dLat, Lon: base.Lon + dLon}
}

// customer walks one booking through the API.
type customer struct {
	apiURL        string
	client        *http.Client
	token         string
	mapCredential string
	rng           *rand.Rand
}

func (c *customer) call(method, path string, body interface{}, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	req, err := http.NewRequest(method, c.apiURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apiError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *customer) pickVehicle() (map[string]string, error) {
	var opts vehicleOptions
	if err := c.call(http.MethodGet, "/catalog/vehicles", nil, &opts); err != nil {
		return nil, err
	}
	var withModels []brand
	for _, b := range opts.Brands {
		if len(b.Models) > 0 {
			withModels = append(withModels, b)
		}
	}
	if len(withModels) == 0 || len(opts.Years) == 0 {
		return nil, fmt.Errorf("no vehicle options offered")
	}
	b := withModels[c.rng.Intn(len(withModels))]
	return map[string]string{
		"brand": b.ID,
		"model": b.Models[c.rng.Intn(len(b.Models))],
		"year":  opts.Years[c.rng.Intn(len(opts.Years))],
	}, nil
}

func (c *customer) pickLocation(opts scheduleOptions) (string, error) {
	if c.mapCredential == "" {
		return opts.PopularLocations[c.rng.Intn(len(opts.PopularLocations))], nil
	}
	if err := c.call(http.MethodPost, "/location/credential", map[string]string{"credential": c.mapCredential}, nil); err != nil {
		return "", err
	}
	var resolved struct {
		LocationText string `json:"location_text"`
	}
	loc := jitterLocation(c.rng, opts.MapCenter, 3000)
	if err := c.call(http.MethodPost, "/location/resolve", loc, &resolved); err != nil {
		return "", err
	}
	return resolved.LocationText, nil
}

// book runs a complete booking and returns the confirmation reference.
func (c *customer) book(maxServices int) (string, error) {
	var sess struct {
		Token     string `json:"token"`
		SessionID string `json:"session_id"`
	}
	if err := c.call(http.MethodPost, "/sessions", nil, &sess); err != nil {
		return "", err
	}
	c.token = sess.Token
	logger := log.WithField("session_id", sess.SessionID)

	if err := c.call(http.MethodPost, "/booking/start", nil, nil); err != nil {
		return "", err
	}

	vehicle, err := c.pickVehicle()
	if err != nil {
		return "", err
	}
	if err := c.call(http.MethodPut, "/booking/vehicle", vehicle, nil); err != nil {
		return "", err
	}
	if err := c.call(http.MethodPost, "/booking/next", nil, nil); err != nil {
		return "", err
	}

	var offerings []offering
	if err := c.call(http.MethodGet, "/catalog/services", nil, &offerings); err != nil {
		return "", err
	}
	if len(offerings) == 0 {
		return "", fmt.Errorf("catalog is empty")
	}
	n := 1 + c.rng.Intn(maxServices)
	for i := 0; i < n; i++ {
		o := offerings[c.rng.Intn(len(offerings))]
		if err := c.call(http.MethodPost, "/booking/cart", map[string]string{"service_id": o.ID}, nil); err != nil {
			return "", err
		}
	}
	if err := c.call(http.MethodPost, "/booking/next", nil, nil); err != nil {
		return "", err
	}

	var sched scheduleOptions
	if err := c.call(http.MethodGet, "/catalog/schedule", nil, &sched); err != nil {
		return "", err
	}
	if len(sched.Dates) == 0 || len(sched.TimeSlots) == 0 || len(sched.PopularLocations) == 0 {
		return "", fmt.Errorf("no schedule options offered")
	}
	location, err := c.pickLocation(sched)
	if err != nil {
		return "", err
	}
	schedule := map[string]string{
		"date":          sched.Dates[c.rng.Intn(len(sched.Dates))].Value,
		"time":          sched.TimeSlots[c.rng.Intn(len(sched.TimeSlots))],
		"location_text": location,
		"vehicle_plate": fmt.Sprintf("D%05d", c.rng.Intn(100000)),
	}
	if err := c.call(http.MethodPut, "/booking/schedule", schedule, nil); err != nil {
		return "", err
	}
	var snap snapshot
	if err := c.call(http.MethodPost, "/booking/next", nil, &snap); err != nil {
		return "", err
	}
	logger.WithFields(log.Fields{
		"vehicle": vehicle["brand"] + " " + vehicle["model"],
		"items":   snap.ItemCount,
		"total":   snap.Total.String(),
	}).Info("Reached checkout")

	method := []string{"deferred-payment", "card-payment"}[c.rng.Intn(2)]
	var result checkoutResult
	err = c.call(http.MethodPost, "/booking/checkout", map[string]string{
		"phone":          fmt.Sprintf("+971 50 %07d", c.rng.Intn(10000000)),
		"payment_method": method,
	}, &result)
	if err != nil {
		return "", err
	}
	if result.Confirmation == nil {
		return "", fmt.Errorf("checkout returned no confirmation")
	}
	logger.WithField("reference", result.Confirmation.Reference).Info("Booking confirmed")
	return result.Confirmation.Reference, nil
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			return n
		}
	}
	return fallback
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}
	bookings := envInt("SIM_BOOKINGS", 5)
	maxServices := envInt("SIM_MAX_SERVICES", 3)
	interval := time.Duration(envInt("SIM_INTERVAL_SECONDS", 1)) * time.Second

	log.WithFields(log.Fields{
		"bookings": bookings,
		"api_url":  apiURL,
	}).Info("Starting booking simulation")

	ctx := context.Background()
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	confirmed := 0
	for i := 0; i < bookings; i++ {
		if err := limiter.Wait(ctx); err != nil {
			log.WithError(err).Fatal("Rate limiter failed")
		}
		c := &customer{
			apiURL:        apiURL,
			client:        &http.Client{Timeout: 2 * time.Minute},
			mapCredential: os.Getenv("SIM_MAP_CREDENTIAL"),
			rng:           rng,
		}
		if _, err := c.book(maxServices); err != nil {
			log.WithError(err).WithField("booking", i+1).Error("Booking failed")
		} else {
			confirmed++
		}
	}

	log.WithFields(log.Fields{
		"confirmed": confirmed,
		"failed":    bookings - confirmed,
	}).Info("Booking simulation finished")
	if confirmed == 0 {
		os.Exit(1)
	}
}
