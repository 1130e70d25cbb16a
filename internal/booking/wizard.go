// Package booking implements the four-step booking wizard: vehicle, services,
// schedule and checkout. A Wizard belongs to exactly one visitor session and is
// not safe for concurrent use; callers serialise access per session.
package booking

import (
	"strings"
	"time"

	"github.com/ukydev/carcare-booking/internal/models"
	"github.com/ukydev/carcare-booking/internal/money"
)

// TaxRatePercent is the VAT applied to the subtotal.
const TaxRatePercent = 5

// PriceBook resolves service offerings by id.
type PriceBook interface {
	Lookup(id string) (models.ServiceOffering, bool)
}

// Listener receives the wizard state after every successful mutation.
type Listener func(Snapshot)

// Wizard holds the state of one booking in progress.
type Wizard struct {
	prices     PriceBook
	step       Step
	vehicle    *models.Vehicle
	cart       []models.CartLine
	schedule   *models.Schedule
	submitting bool
	listeners  []Listener
	now        func() time.Time
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithClock overrides the clock used to stamp orders.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// NewWizard creates a wizard on the landing step.
func NewWizard(prices PriceBook, opts ...Option) *Wizard {
	w := &Wizard{
		prices: prices,
		step:   StepLanding,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnChange registers a listener for state changes.
func (w *Wizard) OnChange(l Listener) {
	w.listeners = append(w.listeners, l)
}

func (w *Wizard) notify() {
	if len(w.listeners) == 0 {
		return
	}
	snap := w.Snapshot()
	for _, l := range w.listeners {
		l(snap)
	}
}

func (w *Wizard) mutable() error {
	if w.submitting {
		return ErrSubmissionInProgress
	}
	return nil
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	return w.step
}

// Submitting reports whether an order is awaiting its processing result.
func (w *Wizard) Submitting() bool {
	return w.submitting
}

// Start leaves the landing page for vehicle selection.
func (w *Wizard) Start() error {
	if err := w.mutable(); err != nil {
		return err
	}
	if w.step != StepLanding {
		return ErrInvalidTransition
	}
	w.step = StepVehicle
	w.notify()
	return nil
}

// Next advances one step if the current step is complete. Checkout is left
// through PlaceOrder, never through Next.
func (w *Wizard) Next() error {
	if err := w.mutable(); err != nil {
		return err
	}
	if w.step >= lastStep {
		return ErrInvalidTransition
	}
	if err := w.gate(w.step); err != nil {
		return err
	}
	w.step++
	w.notify()
	return nil
}

// gate checks the completeness predicate of step.
func (w *Wizard) gate(step Step) error {
	switch step {
	case StepVehicle:
		if w.vehicle == nil {
			return missing(step, "brand", "model", "year")
		}
		return missing(step, w.vehicle.MissingFields()...)
	case StepServices:
		if len(w.cart) == 0 {
			return missing(step, "services")
		}
	case StepSchedule:
		if w.schedule == nil {
			return missing(step, "date", "time", "location", "vehicle_plate")
		}
		return missing(step, w.schedule.MissingFields()...)
	}
	return nil
}

// GoToStep moves back to an earlier step. Forward jumps are rejected.
func (w *Wizard) GoToStep(step Step) error {
	if err := w.mutable(); err != nil {
		return err
	}
	if step < StepLanding || step >= w.step {
		return ErrInvalidTransition
	}
	w.step = step
	w.notify()
	return nil
}

// Previous moves back one step.
func (w *Wizard) Previous() error {
	return w.GoToStep(w.step - 1)
}

// Restart discards the booking and returns to the landing page.
func (w *Wizard) Restart() error {
	if err := w.mutable(); err != nil {
		return err
	}
	w.reset()
	w.notify()
	return nil
}

func (w *Wizard) reset() {
	w.step = StepLanding
	w.vehicle = nil
	w.cart = nil
	w.schedule = nil
}

// SelectVehicle replaces the vehicle. The cart is left untouched.
func (w *Wizard) SelectVehicle(v models.Vehicle) error {
	if err := w.mutable(); err != nil {
		return err
	}
	v.Brand = strings.TrimSpace(v.Brand)
	v.Model = strings.TrimSpace(v.Model)
	v.Year = strings.TrimSpace(v.Year)
	if err := missing(StepVehicle, v.MissingFields()...); err != nil {
		return err
	}
	w.vehicle = &v
	w.notify()
	return nil
}

// Vehicle returns the selected vehicle, or nil.
func (w *Wizard) Vehicle() *models.Vehicle {
	if w.vehicle == nil {
		return nil
	}
	v := *w.vehicle
	return &v
}

// SetSchedule replaces the schedule. All four fields are required.
func (w *Wizard) SetSchedule(s models.Schedule) error {
	if err := w.mutable(); err != nil {
		return err
	}
	s.Date = strings.TrimSpace(s.Date)
	s.Time = strings.TrimSpace(s.Time)
	s.LocationText = strings.TrimSpace(s.LocationText)
	s.VehiclePlate = strings.TrimSpace(s.VehiclePlate)
	if err := missing(StepSchedule, s.MissingFields()...); err != nil {
		return err
	}
	w.schedule = &s
	w.notify()
	return nil
}

// Schedule returns the chosen schedule, or nil.
func (w *Wizard) Schedule() *models.Schedule {
	if w.schedule == nil {
		return nil
	}
	s := *w.schedule
	return &s
}

// Subtotal sums unit price times quantity over the cart, using current prices.
func (w *Wizard) Subtotal() money.Amount {
	total := money.Zero
	for _, line := range w.cart {
		o, ok := w.prices.Lookup(line.ServiceID)
		if !ok {
			continue
		}
		total = total.Add(o.UnitPrice.Mul(line.Quantity))
	}
	return total
}

// Tax is TaxRatePercent of the subtotal, rounded half-up to the fil.
func (w *Wizard) Tax() money.Amount {
	return w.Subtotal().Percent(TaxRatePercent)
}

// Total is subtotal plus tax.
func (w *Wizard) Total() money.Amount {
	sub := w.Subtotal()
	return sub.Add(sub.Percent(TaxRatePercent))
}
