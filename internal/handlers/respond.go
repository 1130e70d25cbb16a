package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/carcare-booking/internal/booking"
	"github.com/ukydev/carcare-booking/internal/middleware"
	"github.com/ukydev/carcare-booking/internal/session"
)

// ErrorResponse is the JSON body of every domain error.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
	Step    string   `json:"step,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// readJSON decodes the request body into v. An empty body leaves v untouched.
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return false
	}
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

func allowMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}

// writeBookingError maps wizard and session errors onto HTTP statuses.
func writeBookingError(w http.ResponseWriter, err error) {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Missing Information",
			Message: "Please fill in all required fields",
			Missing: verr.Missing,
			Step:    verr.Step.String(),
		})
	case errors.Is(err, booking.ErrQuantityLimit):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "Quantity Limit", Message: err.Error()})
	case errors.Is(err, booking.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "Invalid Transition", Message: err.Error()})
	case errors.Is(err, booking.ErrSubmissionInProgress):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "Submission In Progress", Message: "Your order is being processed"})
	case errors.Is(err, booking.ErrNoPendingOrder):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "No Pending Order", Message: err.Error()})
	case errors.Is(err, booking.ErrUnknownService):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Unknown Service", Message: err.Error()})
	case errors.Is(err, session.ErrSessionNotFound):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Session Expired", Message: "Please start a new booking"})
	default:
		log.WithError(err).Error("Unhandled booking error")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal Error", Message: "Something went wrong"})
	}
}

// currentSession resolves the session named by the request's token claims.
func currentSession(store *session.Store, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	claims, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Session context not found", http.StatusUnauthorized)
		return nil, false
	}
	sess, err := store.Get(claims.SessionID)
	if err != nil {
		writeBookingError(w, err)
		return nil, false
	}
	return sess, true
}
