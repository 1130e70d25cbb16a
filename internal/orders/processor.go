// Package orders hands finalized bookings to the external order service.
package orders

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/carcare-booking/internal/events"
	"github.com/ukydev/carcare-booking/internal/models"
)

// ErrHandoffFailed is returned when every publish attempt failed.
var ErrHandoffFailed = errors.New("order could not be handed to the order service")

// Config controls processing latency and the retry policy.
type Config struct {
	// Delay simulates the order service's processing time.
	Delay              time.Duration
	AttemptTimeout     time.Duration
	MaxAttempts        int
	InitialBackoff     time.Duration
	BackoffCoefficient float64
	MaximumBackoff     time.Duration
}

// DefaultConfig mirrors the booking flow's two second confirmation wait.
func DefaultConfig() Config {
	return Config{
		Delay:              2 * time.Second,
		AttemptTimeout:     5 * time.Second,
		MaxAttempts:        3,
		InitialBackoff:     time.Second,
		BackoffCoefficient: 2.0,
		MaximumBackoff:     10 * time.Second,
	}
}

// PlacedEvent is published on events.TopicOrderPlaced.
type PlacedEvent struct {
	Reference   string       `json:"reference"`
	ConfirmedAt time.Time    `json:"confirmed_at"`
	Order       models.Order `json:"order"`
}

// Processor submits orders asynchronously.
type Processor struct {
	publisher events.Publisher
	cfg       Config
	seq       atomic.Int64
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewProcessor creates a processor publishing through publisher.
func NewProcessor(publisher events.Publisher, cfg Config) *Processor {
	def := DefaultConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = def.AttemptTimeout
	}
	if cfg.BackoffCoefficient < 1 {
		cfg.BackoffCoefficient = def.BackoffCoefficient
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	return &Processor{
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Task is a submitted order awaiting its result.
type Task struct {
	done         chan struct{}
	confirmation models.Confirmation
	err          error
}

// Done is closed once the task has a result.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task resolves or ctx ends. A ctx error does not cancel
// the task itself.
func (t *Task) Wait(ctx context.Context) (models.Confirmation, error) {
	select {
	case <-t.done:
		return t.confirmation, t.err
	case <-ctx.Done():
		return models.Confirmation{}, ctx.Err()
	}
}

// Submit starts processing order. Cancelling ctx aborts processing and the
// task resolves with the context error.
func (p *Processor) Submit(ctx context.Context, order models.Order) *Task {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	task := &Task{done: make(chan struct{})}
	go func() {
		defer close(task.done)
		task.confirmation, task.err = p.process(ctx, order)
	}()
	return task
}

func (p *Processor) process(ctx context.Context, order models.Order) (models.Confirmation, error) {
	logger := log.WithFields(log.Fields{
		"order_id":   order.ID,
		"session_id": order.SessionID,
		"total":      order.Total.String(),
	})

	if err := p.sleep(ctx, p.cfg.Delay); err != nil {
		return models.Confirmation{}, err
	}

	now := p.now().UTC()
	conf := models.Confirmation{
		Reference:   p.nextReference(now),
		Status:      models.OrderStatusConfirmed,
		ConfirmedAt: now,
		Order:       order,
	}
	event := PlacedEvent{Reference: conf.Reference, ConfirmedAt: now, Order: order}

	if err := p.publish(ctx, logger, event); err != nil {
		logger.WithError(err).Error("Order hand-off failed")
		return models.Confirmation{}, err
	}

	logger.WithField("reference", conf.Reference).Info("Order confirmed")
	return conf, nil
}

// publish retries with exponential backoff, giving each attempt its own timeout.
func (p *Processor) publish(ctx context.Context, logger *log.Entry, event PlacedEvent) error {
	backoff := p.cfg.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.cfg.AttemptTimeout)
		lastErr = p.publisher.Publish(attemptCtx, events.TopicOrderPlaced, event)
		cancel()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		logger.WithError(lastErr).WithFields(log.Fields{
			"attempt":      attempt,
			"max_attempts": p.cfg.MaxAttempts,
		}).Warn("Order publish attempt failed")

		if attempt == p.cfg.MaxAttempts {
			break
		}
		if err := p.sleep(ctx, backoff); err != nil {
			return err
		}
		backoff = time.Duration(float64(backoff) * p.cfg.BackoffCoefficient)
		if p.cfg.MaximumBackoff > 0 && backoff > p.cfg.MaximumBackoff {
			backoff = p.cfg.MaximumBackoff
		}
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrHandoffFailed, p.cfg.MaxAttempts, lastErr)
}

// nextReference formats UAE-CS-<year>-<6-digit sequence>.
func (p *Processor) nextReference(now time.Time) string {
	n := p.seq.Add(1) % 1_000_000
	return fmt.Sprintf("UAE-CS-%d-%06d", now.Year(), n)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
