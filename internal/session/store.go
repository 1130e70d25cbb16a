// Package session keeps one booking wizard per anonymous visitor.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/carcare-booking/internal/booking"
)

var ErrSessionNotFound = errors.New("session not found")

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 30 * time.Minute

// Session is one visitor's booking. All wizard access goes through Do.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	wizard     *booking.Wizard
	credential string

	lastSeen atomic.Int64 // unix nanoseconds
	revision atomic.Int64
}

// Do runs fn with exclusive access to the session's wizard.
func (s *Session) Do(fn func(w *booking.Wizard) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.wizard)
}

// Snapshot returns the wizard state under the session lock.
func (s *Session) Snapshot() booking.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wizard.Snapshot()
}

// Credential returns the stored map access credential.
func (s *Session) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

// SetCredential stores the map access credential for later requests.
func (s *Session) SetCredential(credential string) {
	s.mu.Lock()
	s.credential = credential
	s.mu.Unlock()
}

// Revision counts wizard state changes.
func (s *Session) Revision() int64 {
	return s.revision.Load()
}

// LastSeen is the time of the last access.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// busy reports whether the session is locked or has an order in flight.
func (s *Session) busy() bool {
	if !s.mu.TryLock() {
		return true
	}
	defer s.mu.Unlock()
	return s.wizard.Submitting()
}

// Store holds live sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	prices   booking.PriceBook
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store whose wizards price against prices.
func NewStore(prices booking.PriceBook, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		prices:   prices,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session on the landing step.
func (st *Store) Create() *Session {
	now := st.now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	sess.wizard = booking.NewWizard(st.prices)
	sess.wizard.OnChange(func(booking.Snapshot) {
		sess.revision.Add(1)
		sess.touch(st.now())
	})
	sess.touch(now)

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	log.WithField("session_id", sess.ID).Debug("Session created")
	return sess
}

// Get returns a live session and marks it as seen.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := st.now()
	if st.expired(sess, now) {
		return nil, ErrSessionNotFound
	}
	sess.touch(now)
	return sess, nil
}

// Exists reports whether id names a live session.
func (st *Store) Exists(id string) bool {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	return ok && !st.expired(sess, st.now())
}

// Delete drops a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len is the number of stored sessions, expired ones included until swept.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) expired(sess *Session, now time.Time) bool {
	return now.Sub(sess.LastSeen()) > st.ttl
}

// Sweep removes idle sessions. Sessions with a request or order in flight
// are kept. It returns the number removed.
func (st *Store) Sweep() int {
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		if !st.expired(sess, now) || sess.busy() {
			continue
		}
		delete(st.sessions, id)
		removed++
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (st *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				log.WithFields(log.Fields{
					"removed": n,
					"live":    st.Len(),
				}).Info("Expired booking sessions swept")
			}
		}
	}
}
