package handlers

import "net/http"

// Handlers groups every HTTP handler of the booking service.
type Handlers struct {
	Sessions *SessionHandler
	Catalog  *CatalogHandler
	Booking  *BookingHandler
	Location *LocationHandler
}

// Register mounts the API on mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", Health)
	mux.HandleFunc("/api/sessions", h.Sessions.Create)

	mux.HandleFunc("/api/catalog/categories", h.Catalog.Categories)
	mux.HandleFunc("/api/catalog/services", h.Catalog.Services)
	mux.HandleFunc("/api/catalog/vehicles", h.Catalog.Vehicles)
	mux.HandleFunc("/api/catalog/schedule", h.Catalog.Schedule)

	mux.HandleFunc("/api/booking", h.Booking.Get)
	mux.HandleFunc("/api/booking/start", h.Booking.Start)
	mux.HandleFunc("/api/booking/next", h.Booking.Next)
	mux.HandleFunc("/api/booking/back", h.Booking.Back)
	mux.HandleFunc("/api/booking/restart", h.Booking.Restart)
	mux.HandleFunc("/api/booking/vehicle", h.Booking.Vehicle)
	mux.HandleFunc("/api/booking/cart", h.Booking.Cart)
	mux.HandleFunc("/api/booking/cart/{id}", h.Booking.CartLine)
	mux.HandleFunc("/api/booking/schedule", h.Booking.Schedule)
	mux.HandleFunc("/api/booking/checkout", h.Booking.Checkout)

	mux.HandleFunc("/api/location/credential", h.Location.Credential)
	mux.HandleFunc("/api/location/resolve", h.Location.Resolve)
}
