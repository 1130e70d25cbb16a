package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/ukydev/carcare-booking/internal/catalog"
	"github.com/ukydev/carcare-booking/internal/mapping"
	"github.com/ukydev/carcare-booking/internal/models"
)

// VehicleOptions lists the choices for the vehicle step.
type VehicleOptions struct {
	Brands []catalog.Brand `json:"brands"`
	Years  []string        `json:"years"`
}

// ScheduleOptions lists the choices for the schedule step.
type ScheduleOptions struct {
	Dates            []catalog.DateOption `json:"dates"`
	TimeSlots        []string             `json:"time_slots"`
	PopularLocations []string             `json:"popular_locations"`
	MapCenter        models.Location      `json:"map_center"`
}

// CatalogHandler serves read-only reference data
type CatalogHandler struct {
	catalog *catalog.Catalog
	now     func() time.Time
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c, now: time.Now}
}

// Categories lists service categories with their offering counts
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.Categories())
}

// Services lists offerings, optionally filtered by ?category= and ?q=
func (h *CatalogHandler) Services(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	category := models.Category(strings.TrimSpace(r.URL.Query().Get("category")))
	if category != "" && !models.IsValidCategory(category) {
		http.Error(w, "Unknown category", http.StatusBadRequest)
		return
	}

	offerings := h.catalog.Search(category, r.URL.Query().Get("q"))
	if offerings == nil {
		offerings = []models.ServiceOffering{}
	}
	writeJSON(w, http.StatusOK, offerings)
}

// Vehicles lists brands, their models and model years
func (h *CatalogHandler) Vehicles(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, VehicleOptions{
		Brands: catalog.Brands(),
		Years:  catalog.ModelYears(h.now()),
	})
}

// Schedule lists bookable dates, time slots and popular locations
func (h *CatalogHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, ScheduleOptions{
		Dates:            catalog.BookableDates(h.now()),
		TimeSlots:        catalog.TimeSlots(),
		PopularLocations: catalog.PopularLocations(),
		MapCenter:        mapping.DefaultCenter,
	})
}
