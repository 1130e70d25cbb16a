package handlers

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/carcare-booking/internal/auth"
	"github.com/ukydev/carcare-booking/internal/booking"
	"github.com/ukydev/carcare-booking/internal/session"
)

// SessionResponse is returned when a visitor starts a booking session.
type SessionResponse struct {
	Token     string           `json:"token"`
	SessionID string           `json:"session_id"`
	ExpiresAt time.Time        `json:"expires_at"`
	Booking   booking.Snapshot `json:"booking"`
}

// SessionHandler issues anonymous booking sessions
type SessionHandler struct {
	authService *auth.Service
	store       *session.Store
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(authService *auth.Service, store *session.Store) *SessionHandler {
	return &SessionHandler{
		authService: authService,
		store:       store,
	}
}

// Create starts a session and returns its bearer token
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	sess := h.store.Create()
	token, err := h.authService.GenerateToken(sess.ID)
	if err != nil {
		h.store.Delete(sess.ID)
		log.WithError(err).Error("Failed to generate session token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	log.WithField("session_id", sess.ID).Info("Booking session started")
	writeJSON(w, http.StatusCreated, SessionResponse{
		Token:     token,
		SessionID: sess.ID,
		ExpiresAt: time.Now().Add(h.authService.TokenExpiry()).UTC(),
		Booking:   sess.Snapshot(),
	})
}

// Health reports liveness
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
