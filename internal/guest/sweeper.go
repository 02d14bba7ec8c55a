// Package guest owns the demo-account lifecycle: guest retailers live for a
// fixed session window after creation, then a periodic sweep deletes the
// account and everything it owns.
package guest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Store is the persistence surface the sweeper needs.
type Store interface {
	// DeleteExpiredGuests removes guest accounts created before cutoff and
	// all rows referencing them, returning how many were removed.
	DeleteExpiredGuests(ctx context.Context, cutoff time.Time) (int, error)
}

// Sweeper periodically deletes expired guest accounts. It is constructed
// once at startup and handed to whatever composes the server; Stop releases
// its schedule. All sweep errors are logged, never propagated: the sweep has
// no caller to report to.
type Sweeper struct {
	store      Store
	clock      clock.Clock
	sessionTTL time.Duration
	interval   time.Duration
	log        *logrus.Entry

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewSweeper(store Store, clk clock.Clock, sessionTTL, interval time.Duration, log *logrus.Entry) *Sweeper {
	return &Sweeper{
		store:      store,
		clock:      clk,
		sessionTTL: sessionTTL,
		interval:   interval,
		log:        log,
	}
}

// Start schedules the sweep. Starting twice is a no-op.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("guest sweeper already running")
		return
	}

	s.cron = cron.New()
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.RunSweep(context.Background())
	}))
	s.cron.Start()
	s.running = true

	s.log.WithField("interval", s.interval.String()).Info("guest sweeper started")
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.running = false
	s.log.Info("guest sweeper stopped")
}

// RunSweep deletes every guest account older than the session window. It is
// called on the schedule and can be invoked directly for a manual cleanup.
func (s *Sweeper) RunSweep(ctx context.Context) int {
	cutoff := s.Cutoff()

	cleaned, err := s.store.DeleteExpiredGuests(ctx, cutoff)
	if err != nil {
		s.log.WithError(err).Error("guest sweep failed")
	}
	if cleaned > 0 {
		s.log.WithField("count", cleaned).Info("cleaned up expired guest accounts")
	}

	return cleaned
}

// Cutoff is the creation-time boundary: guests created before it are expired.
func (s *Sweeper) Cutoff() time.Time {
	return s.clock.Now().Add(-s.sessionTTL)
}

// Expired reports whether a guest account created at createdAt has outlived
// its session window.
func (s *Sweeper) Expired(createdAt time.Time) bool {
	return s.clock.Now().Sub(createdAt) > s.sessionTTL
}

// SessionExpiresAt returns when a session starting at createdAt ends.
func (s *Sweeper) SessionExpiresAt(createdAt time.Time) time.Time {
	return createdAt.Add(s.sessionTTL)
}

// Status describes the sweeper for diagnostics.
func (s *Sweeper) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return "stopped"
	}
	return fmt.Sprintf("running (every %s)", s.interval)
}
