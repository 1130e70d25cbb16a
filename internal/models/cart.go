package models

import "github.com/ukydev/carcare-booking/internal/money"

// CartLine pairs a service with the number of times it was added.
// Quantity is always at least 1; a line that would drop to 0 is removed.
type CartLine struct {
	ServiceID string `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

// CartItem is a cart line joined with its offering for rendering.
type CartItem struct {
	ServiceID     string       `json:"service_id"`
	Title         string       `json:"title"`
	Category      Category     `json:"category"`
	UnitPrice     money.Amount `json:"unit_price"`
	Quantity      int          `json:"quantity"`
	LineTotal     money.Amount `json:"line_total"`
	WarrantyLabel string       `json:"warranty_label,omitempty"`
}
