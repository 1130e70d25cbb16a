package booking

import (
	"strings"

	"github.com/ukydev/carcare-booking/internal/models"
)

// PlaceOrder validates checkout and freezes the booking into an order.
// The wizard stays on checkout, rejecting mutations, until CompleteOrder is
// called with the processing result.
func (w *Wizard) PlaceOrder(contact models.Contact, method models.PaymentMethod) (*models.Order, error) {
	if err := w.mutable(); err != nil {
		return nil, err
	}
	if w.step != StepCheckout {
		return nil, ErrInvalidTransition
	}

	// Earlier steps can be undone from checkout (the cart is editable anywhere).
	for _, s := range []Step{StepVehicle, StepServices, StepSchedule} {
		if err := w.gate(s); err != nil {
			return nil, err
		}
	}

	contact.Phone = strings.TrimSpace(contact.Phone)
	contact.VoucherCode = strings.TrimSpace(contact.VoucherCode)
	var fields []string
	if contact.Phone == "" {
		fields = append(fields, "phone")
	}
	if !models.IsValidPaymentMethod(method) {
		fields = append(fields, "payment_method")
	}
	if err := missing(StepCheckout, fields...); err != nil {
		return nil, err
	}

	order := &models.Order{
		Vehicle:       *w.vehicle,
		Schedule:      *w.schedule,
		Contact:       contact,
		PaymentMethod: method,
		PlacedAt:      w.now().UTC(),
	}
	for _, item := range w.cartItems() {
		order.Lines = append(order.Lines, models.OrderLine{
			ServiceID: item.ServiceID,
			Title:     item.Title,
			Category:  item.Category,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
		order.Subtotal = order.Subtotal.Add(item.LineTotal)
	}
	order.Tax = order.Subtotal.Percent(TaxRatePercent)
	order.Total = order.Subtotal.Add(order.Tax)

	w.submitting = true
	w.notify()
	return order, nil
}

// CompleteOrder resolves a pending submission. On success the booking is
// cleared and the wizard returns to the landing page; on failure everything
// is kept so the customer can retry.
func (w *Wizard) CompleteOrder(result error) error {
	if !w.submitting {
		return ErrNoPendingOrder
	}
	w.submitting = false
	if result == nil {
		w.reset()
	}
	w.notify()
	return nil
}
