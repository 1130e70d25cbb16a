package models

import (
	"time"

	"github.com/ukydev/carcare-booking/internal/money"
)

// PaymentMethod is how the customer settles the order.
type PaymentMethod string

const (
	PaymentDeferred PaymentMethod = "deferred-payment"
	PaymentCard     PaymentMethod = "card-payment"
)

// IsValidPaymentMethod checks if a payment method is supported
func IsValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentDeferred, PaymentCard:
		return true
	default:
		return false
	}
}

// Contact holds the checkout details entered by the customer.
type Contact struct {
	Phone       string `json:"phone"`
	VoucherCode string `json:"voucher_code,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// OrderLine is a cart line with its price captured at submission.
type OrderLine struct {
	ServiceID string       `json:"service_id"`
	Title     string       `json:"title"`
	Category  Category     `json:"category"`
	UnitPrice money.Amount `json:"unit_price"`
	Quantity  int          `json:"quantity"`
	LineTotal money.Amount `json:"line_total"`
}

// Order is the finalized booking handed to the order service.
type Order struct {
	ID            string        `json:"id"`
	SessionID     string        `json:"session_id"`
	Vehicle       Vehicle       `json:"vehicle"`
	Lines         []OrderLine   `json:"lines"`
	Schedule      Schedule      `json:"schedule"`
	Contact       Contact       `json:"contact"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Subtotal      money.Amount  `json:"subtotal"`
	Tax           money.Amount  `json:"tax"`
	Total         money.Amount  `json:"total"`
	PlacedAt      time.Time     `json:"placed_at"`
}

// Order statuses reported back to the client.
const (
	OrderStatusConfirmed = "confirmed"
	OrderStatusFailed    = "failed"
)

// Confirmation is what the order service returns for an accepted order.
type Confirmation struct {
	Reference   string    `json:"reference"` // e.g. UAE-CS-2024-001523
	Status      string    `json:"status"`
	ConfirmedAt time.Time `json:"confirmed_at"`
	Order       Order     `json:"order"`
}
