package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/carcare-booking/internal/booking"
	"github.com/ukydev/carcare-booking/internal/catalog"
	"github.com/ukydev/carcare-booking/internal/models"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore(ttl time.Duration) (*Store, *clock) {
	c := &clock{t: time.Date(2024, 1, 21, 9, 0, 0, 0, time.UTC)}
	st := NewStore(catalog.Default(), ttl)
	st.now = c.now
	return st, c
}

func TestStore_CreateGet(t *testing.T) {
	st, _ := newTestStore(time.Minute)
	sess := st.Create()
	require.NotEmpty(t, sess.ID)

	got, err := st.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.True(t, st.Exists(sess.ID))
	assert.Equal(t, booking.StepLanding, got.Snapshot().Step)

	_, err = st.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	other := st.Create()
	assert.NotEqual(t, sess.ID, other.ID)
	assert.Equal(t, 2, st.Len())
}

func TestStore_SessionsAreIndependent(t *testing.T) {
	st, _ := newTestStore(time.Minute)
	a, b := st.Create(), st.Create()

	require.NoError(t, a.Do(func(w *booking.Wizard) error {
		_, err := w.AddService("full-service")
		return err
	}))
	assert.Equal(t, 1, a.Snapshot().ItemCount)
	assert.Equal(t, 0, b.Snapshot().ItemCount)
}

func TestStore_RevisionTracksChanges(t *testing.T) {
	st, _ := newTestStore(time.Minute)
	sess := st.Create()
	assert.Equal(t, int64(0), sess.Revision())

	require.NoError(t, sess.Do(func(w *booking.Wizard) error { return w.Start() }))
	assert.Equal(t, int64(1), sess.Revision())

	// Rejected operations are not changes.
	assert.Error(t, sess.Do(func(w *booking.Wizard) error { return w.Next() }))
	assert.Equal(t, int64(1), sess.Revision())
}

func TestStore_Expiry(t *testing.T) {
	st, c := newTestStore(time.Minute)
	sess := st.Create()

	c.advance(50 * time.Second)
	_, err := st.Get(sess.ID)
	require.NoError(t, err, "access refreshes the session")

	c.advance(50 * time.Second)
	assert.True(t, st.Exists(sess.ID))

	c.advance(20 * time.Second)
	assert.False(t, st.Exists(sess.ID))
	_, err = st.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, 1, st.Sweep())
	assert.Equal(t, 0, st.Len())
}

func TestStore_SweepKeepsSubmitting(t *testing.T) {
	st, c := newTestStore(time.Minute)
	sess := st.Create()
	idle := st.Create()

	require.NoError(t, sess.Do(func(w *booking.Wizard) error {
		require.NoError(t, w.Start())
		require.NoError(t, w.SelectVehicle(models.Vehicle{Brand: "BMW", Model: "X5", Year: "2022"}))
		require.NoError(t, w.Next())
		_, err := w.AddService("exterior-wash")
		require.NoError(t, err)
		require.NoError(t, w.Next())
		require.NoError(t, w.SetSchedule(models.Schedule{Date: "2024-01-25", Time: "10:00 AM", LocationText: "Deira", VehiclePlate: "D1H200"}))
		require.NoError(t, w.Next())
		_, err = w.PlaceOrder(models.Contact{Phone: "+971501234567"}, models.PaymentCard)
		return err
	}))

	c.advance(2 * time.Minute)
	assert.Equal(t, 1, st.Sweep())
	assert.Equal(t, 1, st.Len())
	_, ok := st.sessions[sess.ID]
	assert.True(t, ok)
	_, ok = st.sessions[idle.ID]
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	st, _ := newTestStore(time.Minute)
	sess := st.Create()
	st.Delete(sess.ID)
	assert.False(t, st.Exists(sess.ID))
}

func TestSession_Credential(t *testing.T) {
	st, _ := newTestStore(time.Minute)
	sess := st.Create()
	assert.Empty(t, sess.Credential())
	sess.SetCredential("pk.eyJ1")
	assert.Equal(t, "pk.eyJ1", sess.Credential())
}

func TestSession_DoSerialises(t *testing.T) {
	st, _ := newTestStore(time.Minute)
	sess := st.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sess.Do(func(w *booking.Wizard) error {
				_, err := w.AddService("exterior-wash")
				return err
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, sess.Snapshot().ItemCount)
}

func TestStore_RunSweeper(t *testing.T) {
	st, c := newTestStore(time.Minute)
	st.Create()
	c.advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return st.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestNewStore_DefaultTTL(t *testing.T) {
	st := NewStore(catalog.Default(), 0)
	assert.Equal(t, DefaultTTL, st.ttl)
}
