// internal/keepalive/keepalive.go

// Package keepalive pings the catalog backend after periods of inactivity
// so the hosted project is not paused between visits.
package keepalive

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"folio/internal/logging"

	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"
)

// Pinger issues a lightweight query.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Activity records when a visitor last did something.
type Activity struct {
	last atomic.Int64
}

// Touch marks now as the last activity.
func (a *Activity) Touch() { a.TouchAt(time.Now()) }

// TouchAt marks t as the last activity.
func (a *Activity) TouchAt(t time.Time) { a.last.Store(t.UnixNano()) }

// Last returns the last activity, zero if none.
func (a *Activity) Last() time.Time {
	n := a.last.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Monitor checks the activity every interval and pings once the idle
// threshold has elapsed since the later of the last activity and the last
// ping.
type Monitor struct {
	pinger   Pinger
	activity *Activity
	idle     time.Duration
	interval time.Duration
	timeout  time.Duration
	log      zerolog.Logger
	now      func() time.Time
	onPing   func(error)

	mu       sync.Mutex
	lastPing time.Time
	t        tomb.Tomb
}

// Option tweaks a Monitor.
type Option func(*Monitor)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// WithPingHook is called with the result of every ping.
func WithPingHook(fn func(error)) Option {
	return func(m *Monitor) { m.onPing = fn }
}

// NewMonitor builds a monitor; call Start to run it.
func NewMonitor(p Pinger, activity *Activity, idle, interval time.Duration, logger zerolog.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		pinger:   p,
		activity: activity,
		idle:     idle,
		interval: interval,
		timeout:  10 * time.Second,
		log:      logging.For(logger, "keepalive"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start runs the check loop until Stop.
func (m *Monitor) Start() {
	m.t.Go(m.loop)
}

// Stop ends the loop and waits for it.
func (m *Monitor) Stop() error {
	m.t.Kill(nil)
	return m.t.Wait()
}

func (m *Monitor) loop() error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	ctx := m.t.Context(context.Background())
	for {
		select {
		case <-m.t.Dying():
			return nil
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check pings when the idle threshold has elapsed. It reports whether a
// ping was sent.
func (m *Monitor) Check(ctx context.Context) bool {
	now := m.now()
	m.mu.Lock()
	ref := m.activity.Last()
	if m.lastPing.After(ref) {
		ref = m.lastPing
	}
	if ref.IsZero() {
		// Nothing happened yet; start the idle clock now.
		m.lastPing = now
		m.mu.Unlock()
		return false
	}
	if now.Sub(ref) < m.idle {
		m.mu.Unlock()
		return false
	}
	m.lastPing = now
	m.mu.Unlock()

	pctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	err := m.pinger.Ping(pctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("keep-alive ping failed")
	} else {
		m.log.Debug().Dur("idle", now.Sub(ref)).Msg("keep-alive ping sent")
	}
	if m.onPing != nil {
		m.onPing(err)
	}
	return true
}
