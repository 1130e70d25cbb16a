package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ukydev/carcare-booking/internal/mapping"
	"github.com/ukydev/carcare-booking/internal/models"
	"github.com/ukydev/carcare-booking/internal/session"
)

type credentialRequest struct {
	Credential string `json:"credential"`
}

type resolveRequest struct {
	Query string   `json:"query"`
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
}

// LocationResponse answers a resolve request. When CredentialRequired is set
// the client shows the credential form instead of the map.
type LocationResponse struct {
	CredentialRequired bool             `json:"credential_required"`
	MapCenter          *models.Location `json:"map_center,omitempty"`
	*mapping.Selection
}

// LocationHandler resolves map searches and clicks for the schedule step
type LocationHandler struct {
	store    *session.Store
	resolver *mapping.Resolver
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(store *session.Store, resolver *mapping.Resolver) *LocationHandler {
	return &LocationHandler{store: store, resolver: resolver}
}

// Credential stores the visitor's map access credential in the session
func (h *LocationHandler) Credential(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req credentialRequest
	if !readJSON(w, r, &req) {
		return
	}
	credential := strings.TrimSpace(req.Credential)
	if !mapping.ValidCredential(credential) {
		http.Error(w, "credential is required", http.StatusBadRequest)
		return
	}
	sess, ok := currentSession(h.store, w, r)
	if !ok {
		return
	}
	sess.SetCredential(credential)
	center := mapping.DefaultCenter
	writeJSON(w, http.StatusOK, LocationResponse{MapCenter: &center})
}

// Resolve turns {"query"} or {"lat","lon"} into schedule location text
func (h *LocationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req resolveRequest
	if !readJSON(w, r, &req) {
		return
	}
	sess, ok := currentSession(h.store, w, r)
	if !ok {
		return
	}
	credential := sess.Credential()

	var (
		sel mapping.Selection
		err error
	)
	switch {
	case req.Lat != nil && req.Lon != nil:
		sel, err = h.resolver.ResolveCoordinates(credential, models.Location{Lat: *req.Lat, Lon: *req.Lon})
	case req.Lat != nil || req.Lon != nil:
		http.Error(w, "lat and lon must be given together", http.StatusBadRequest)
		return
	default:
		sel, err = h.resolver.ResolveText(credential, req.Query)
	}

	switch {
	case errors.Is(err, mapping.ErrCredentialRequired):
		writeJSON(w, http.StatusOK, LocationResponse{CredentialRequired: true})
	case errors.Is(err, mapping.ErrEmptyQuery), errors.Is(err, mapping.ErrInvalidCoordinates):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		writeBookingError(w, err)
	default:
		writeJSON(w, http.StatusOK, LocationResponse{Selection: &sel})
	}
}
