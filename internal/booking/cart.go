package booking

import (
	"fmt"

	"github.com/ukydev/carcare-booking/internal/models"
)

// MaxLineQuantity caps the units of one service in the cart.
const MaxLineQuantity = 99

func quantityLimit(serviceID string) error {
	return fmt.Errorf("%w: at most %d of %s", ErrQuantityLimit, MaxLineQuantity, serviceID)
}

func (w *Wizard) lineIndex(serviceID string) int {
	for i, line := range w.cart {
		if line.ServiceID == serviceID {
			return i
		}
	}
	return -1
}

func (w *Wizard) deleteLine(i int) {
	w.cart = append(w.cart[:i], w.cart[i+1:]...)
}

// AddService adds one unit of an offering, creating the line if needed.
func (w *Wizard) AddService(serviceID string) ([]models.CartLine, error) {
	if err := w.mutable(); err != nil {
		return nil, err
	}
	if _, ok := w.prices.Lookup(serviceID); !ok {
		return nil, ErrUnknownService
	}
	if i := w.lineIndex(serviceID); i >= 0 {
		if w.cart[i].Quantity >= MaxLineQuantity {
			return nil, quantityLimit(serviceID)
		}
		w.cart[i].Quantity++
	} else {
		w.cart = append(w.cart, models.CartLine{ServiceID: serviceID, Quantity: 1})
	}
	w.notify()
	return w.Cart(), nil
}

// RemoveService takes one unit off a line, deleting it at quantity 1.
// Removing a service that is not in the cart does nothing.
func (w *Wizard) RemoveService(serviceID string) ([]models.CartLine, error) {
	if err := w.mutable(); err != nil {
		return nil, err
	}
	if i := w.lineIndex(serviceID); i >= 0 {
		if w.cart[i].Quantity > 1 {
			w.cart[i].Quantity--
		} else {
			w.deleteLine(i)
		}
	}
	w.notify()
	return w.Cart(), nil
}

// SetLineQuantity sets a line's quantity; qty <= 0 deletes the line and
// qty above MaxLineQuantity is rejected.
func (w *Wizard) SetLineQuantity(serviceID string, qty int) ([]models.CartLine, error) {
	if err := w.mutable(); err != nil {
		return nil, err
	}
	if qty > MaxLineQuantity {
		return nil, quantityLimit(serviceID)
	}
	i := w.lineIndex(serviceID)
	switch {
	case qty <= 0:
		if i >= 0 {
			w.deleteLine(i)
		}
	case i >= 0:
		w.cart[i].Quantity = qty
	default:
		if _, ok := w.prices.Lookup(serviceID); !ok {
			return nil, ErrUnknownService
		}
		w.cart = append(w.cart, models.CartLine{ServiceID: serviceID, Quantity: qty})
	}
	w.notify()
	return w.Cart(), nil
}

// ClearCart removes every line.
func (w *Wizard) ClearCart() error {
	if err := w.mutable(); err != nil {
		return err
	}
	w.cart = nil
	w.notify()
	return nil
}

// Cart returns a copy of the cart lines in insertion order.
func (w *Wizard) Cart() []models.CartLine {
	out := make([]models.CartLine, len(w.cart))
	copy(out, w.cart)
	return out
}

// Quantity returns the quantity of a service in the cart, 0 if absent.
func (w *Wizard) Quantity(serviceID string) int {
	if i := w.lineIndex(serviceID); i >= 0 {
		return w.cart[i].Quantity
	}
	return 0
}

// ItemCount is the total number of units in the cart.
func (w *Wizard) ItemCount() int {
	n := 0
	for _, line := range w.cart {
		n += line.Quantity
	}
	return n
}

// cartItems joins the cart with current offering data.
func (w *Wizard) cartItems() []models.CartItem {
	items := make([]models.CartItem, 0, len(w.cart))
	for _, line := range w.cart {
		o, ok := w.prices.Lookup(line.ServiceID)
		if !ok {
			continue
		}
		items = append(items, models.CartItem{
			ServiceID:     o.ID,
			Title:         o.Title,
			Category:      o.Category,
			UnitPrice:     o.UnitPrice,
			Quantity:      line.Quantity,
			LineTotal:     o.UnitPrice.Mul(line.Quantity),
			WarrantyLabel: o.WarrantyLabel,
		})
	}
	return items
}
