package booking

import (
	"github.com/ukydev/carcare-booking/internal/models"
	"github.com/ukydev/carcare-booking/internal/money"
)

// Snapshot is everything the presentation layer needs to render the wizard.
type Snapshot struct {
	Step       Step              `json:"step"`
	StepName   string            `json:"step_name"`
	Progress   []StepProgress    `json:"progress"`
	Vehicle    *models.Vehicle   `json:"vehicle"`
	Cart       []models.CartItem `json:"cart"`
	ItemCount  int               `json:"item_count"`
	Schedule   *models.Schedule  `json:"schedule"`
	Subtotal   money.Amount      `json:"subtotal"`
	Tax        money.Amount      `json:"tax"`
	Total      money.Amount      `json:"total"`
	Submitting bool              `json:"submitting"`
}

// Snapshot captures the current state. Totals are computed once so every view
// rendered from the same snapshot agrees.
func (w *Wizard) Snapshot() Snapshot {
	sub := w.Subtotal()
	tax := sub.Percent(TaxRatePercent)
	return Snapshot{
		Step:       w.step,
		StepName:   w.step.String(),
		Progress:   progress(w.step),
		Vehicle:    w.Vehicle(),
		Cart:       w.cartItems(),
		ItemCount:  w.ItemCount(),
		Schedule:   w.Schedule(),
		Subtotal:   sub,
		Tax:        tax,
		Total:      sub.Add(tax),
		Submitting: w.submitting,
	}
}
