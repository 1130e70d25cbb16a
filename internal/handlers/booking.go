package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/carcare-booking/internal/booking"
	"github.com/ukydev/carcare-booking/internal/models"
	"github.com/ukydev/carcare-booking/internal/orders"
	"github.com/ukydev/carcare-booking/internal/session"
)

// OrderSubmitter hands a finalized order to order processing.
type OrderSubmitter interface {
	Submit(ctx context.Context, order models.Order) *orders.Task
}

type backRequest struct {
	Step *int `json:"step"`
}

type cartRequest struct {
	ServiceID string `json:"service_id"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type checkoutRequest struct {
	Phone         string               `json:"phone"`
	VoucherCode   string               `json:"voucher_code"`
	Notes         string               `json:"notes"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
}

// CheckoutResponse is returned once the order service has answered.
type CheckoutResponse struct {
	Confirmation *models.Confirmation `json:"confirmation,omitempty"`
	Status       string               `json:"status"`
	Message      string               `json:"message,omitempty"`
	Booking      booking.Snapshot     `json:"booking"`
}

// BookingHandler drives the visitor's booking wizard
type BookingHandler struct {
	store         *session.Store
	orders        OrderSubmitter
	submitTimeout time.Duration
}

// NewBookingHandler creates a new booking handler. submitTimeout bounds how
// long an order may take to resolve, retries included.
func NewBookingHandler(store *session.Store, submitter OrderSubmitter, submitTimeout time.Duration) *BookingHandler {
	if submitTimeout <= 0 {
		submitTimeout = time.Minute
	}
	return &BookingHandler{
		store:         store,
		orders:        submitter,
		submitTimeout: submitTimeout,
	}
}

// apply runs op against the session wizard and answers with the new snapshot.
func (h *BookingHandler) apply(w http.ResponseWriter, r *http.Request, op func(*booking.Wizard) error) {
	sess, ok := currentSession(h.store, w, r)
	if !ok {
		return
	}
	var (
		snap booking.Snapshot
		rev  int64
	)
	err := sess.Do(func(wz *booking.Wizard) error {
		if err := op(wz); err != nil {
			return err
		}
		snap = wz.Snapshot()
		rev = sess.Revision()
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("session_id", sess.ID).Debug("Booking operation rejected")
		writeBookingError(w, err)
		return
	}
	w.Header().Set("ETag", revisionETag(rev))
	writeJSON(w, http.StatusOK, snap)
}

// revisionETag tags a snapshot with the session's change counter.
func revisionETag(rev int64) string {
	return `"` + strconv.FormatInt(rev, 10) + `"`
}

// Get returns the current booking snapshot
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if match := r.Header.Get("If-None-Match"); match != "" {
		sess, ok := currentSession(h.store, w, r)
		if !ok {
			return
		}
		if etag := revisionETag(sess.Revision()); match == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	h.apply(w, r, func(*booking.Wizard) error { return nil })
}

// Start leaves the landing page
func (h *BookingHandler) Start(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	h.apply(w, r, func(wz *booking.Wizard) error { return wz.Start() })
}

// Next advances one step when the current step is complete
func (h *BookingHandler) Next(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	h.apply(w, r, func(wz *booking.Wizard) error { return wz.Next() })
}

// Back returns to {"step": n}, or one step back without a body
func (h *BookingHandler) Back(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req backRequest
	if !readJSON(w, r, &req) {
		return
	}
	h.apply(w, r, func(wz *booking.Wizard) error {
		if req.Step == nil {
			return wz.Previous()
		}
		return wz.GoToStep(booking.Step(*req.Step))
	})
}

// Restart discards the booking
func (h *BookingHandler) Restart(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	h.apply(w, r, func(wz *booking.Wizard) error { return wz.Restart() })
}

// Vehicle replaces the selected vehicle
func (h *BookingHandler) Vehicle(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPut) {
		return
	}
	var v models.Vehicle
	if !readJSON(w, r, &v) {
		return
	}
	h.apply(w, r, func(wz *booking.Wizard) error { return wz.SelectVehicle(v) })
}

// Cart adds one unit of a service (POST) or empties the cart (DELETE)
func (h *BookingHandler) Cart(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost, http.MethodDelete) {
		return
	}
	if r.Method == http.MethodDelete {
		h.apply(w, r, func(wz *booking.Wizard) error { return wz.ClearCart() })
		return
	}

	var req cartRequest
	if !readJSON(w, r, &req) {
		return
	}
	serviceID := strings.TrimSpace(req.ServiceID)
	if serviceID == "" {
		http.Error(w, "service_id is required", http.StatusBadRequest)
		return
	}
	h.apply(w, r, func(wz *booking.Wizard) error {
		_, err := wz.AddService(serviceID)
		return err
	})
}

// CartLine removes one unit (DELETE) or sets the quantity (PUT) of a line
func (h *BookingHandler) CartLine(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPut, http.MethodDelete) {
		return
	}
	serviceID := r.PathValue("id")
	if serviceID == "" {
		http.Error(w, "service id is required", http.StatusBadRequest)
		return
	}

	if r.Method == http.MethodDelete {
		h.apply(w, r, func(wz *booking.Wizard) error {
			_, err := wz.RemoveService(serviceID)
			return err
		})
		return
	}

	var req quantityRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		http.Error(w, "quantity is required", http.StatusBadRequest)
		return
	}
	h.apply(w, r, func(wz *booking.Wizard) error {
		_, err := wz.SetLineQuantity(serviceID, *req.Quantity)
		return err
	})
}

// Schedule sets date, time, location and plate together
func (h *BookingHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPut) {
		return
	}
	var s models.Schedule
	if !readJSON(w, r, &s) {
		return
	}
	h.apply(w, r, func(wz *booking.Wizard) error { return wz.SetSchedule(s) })
}

// Checkout places the order and waits for the order service's answer
func (h *BookingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req checkoutRequest
	if !readJSON(w, r, &req) {
		return
	}
	sess, ok := currentSession(h.store, w, r)
	if !ok {
		return
	}

	contact := models.Contact{Phone: req.Phone, VoucherCode: req.VoucherCode, Notes: req.Notes}
	var order *models.Order
	err := sess.Do(func(wz *booking.Wizard) error {
		var err error
		order, err = wz.PlaceOrder(contact, req.PaymentMethod)
		return err
	})
	if err != nil {
		writeBookingError(w, err)
		return
	}
	order.SessionID = sess.ID

	logger := log.WithFields(log.Fields{
		"session_id": sess.ID,
		"total":      order.Total.String(),
		"lines":      len(order.Lines),
	})
	logger.Info("Order submitted")

	// Processing outlives the request so the wizard always gets a result.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.submitTimeout)
	task := h.orders.Submit(ctx, *order)

	conf, err := task.Wait(r.Context())
	if err != nil && r.Context().Err() != nil {
		logger.Warn("Client went away during checkout, completing in background")
		go func() {
			defer cancel()
			_, err := task.Wait(context.Background())
			h.complete(sess, logger, err)
		}()
		return
	}
	cancel()

	snap := h.complete(sess, logger, err)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, CheckoutResponse{
			Status:  models.OrderStatusFailed,
			Message: orderFailureMessage(err),
			Booking: snap,
		})
		return
	}
	writeJSON(w, http.StatusCreated, CheckoutResponse{
		Confirmation: &conf,
		Status:       conf.Status,
		Booking:      snap,
	})
}

// complete resolves the pending submission and returns the resulting state.
func (h *BookingHandler) complete(sess *session.Session, logger *log.Entry, result error) booking.Snapshot {
	var snap booking.Snapshot
	err := sess.Do(func(wz *booking.Wizard) error {
		err := wz.CompleteOrder(result)
		snap = wz.Snapshot()
		return err
	})
	if err != nil {
		logger.WithError(err).Error("Failed to resolve order submission")
	}
	return snap
}

func orderFailureMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "The order service did not answer in time. Your booking has been kept, please try again."
	}
	return "We could not place your order. Your booking has been kept, please try again."
}
