package guest

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	created map[int64]time.Time
	failErr error
	sweeps  int
}

func (f *fakeStore) DeleteExpiredGuests(_ context.Context, cutoff time.Time) (int, error) {
	f.sweeps++
	if f.failErr != nil {
		return 0, f.failErr
	}
	var cleaned int
	for id, createdAt := range f.created {
		if createdAt.Before(cutoff) {
			delete(f.created, id)
			cleaned++
		}
	}
	return cleaned, nil
}

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func newTestSweeper(store Store, clk *testclock.Clock) *Sweeper {
	return NewSweeper(store, clk, 60*time.Minute, 15*time.Minute, testLogger())
}

func TestRunSweepDeletesExpiredGuests(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clk := testclock.NewClock(start)

	store := &fakeStore{created: map[int64]time.Time{
		1: start.Add(-61 * time.Minute),
		2: start.Add(-30 * time.Minute),
	}}

	s := newTestSweeper(store, clk)

	cleaned := s.RunSweep(context.Background())
	assert.Equal(t, 1, cleaned)
	_, survivor := store.created[2]
	assert.True(t, survivor)
}

func TestRunSweepRespectsBoundary(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clk := testclock.NewClock(start)

	// Created exactly 60 minutes ago: not yet past the window.
	store := &fakeStore{created: map[int64]time.Time{
		1: start.Add(-60 * time.Minute),
	}}

	s := newTestSweeper(store, clk)
	assert.Equal(t, 0, s.RunSweep(context.Background()))

	clk.Advance(time.Second)
	assert.Equal(t, 1, s.RunSweep(context.Background()))
}

func TestRunSweepLogsErrorsAndContinues(t *testing.T) {
	clk := testclock.NewClock(time.Now())
	store := &fakeStore{failErr: errors.New("boom")}

	s := newTestSweeper(store, clk)
	assert.Equal(t, 0, s.RunSweep(context.Background()))
	assert.Equal(t, 1, store.sweeps)
}

func TestExpired(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clk := testclock.NewClock(start)
	s := newTestSweeper(&fakeStore{}, clk)

	assert.False(t, s.Expired(start.Add(-60*time.Minute)))
	assert.True(t, s.Expired(start.Add(-61*time.Minute)))

	clk.Advance(2 * time.Minute)
	assert.True(t, s.Expired(start.Add(-59*time.Minute)))
}

func TestSessionExpiresAt(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := newTestSweeper(&fakeStore{}, testclock.NewClock(createdAt))
	assert.Equal(t, createdAt.Add(time.Hour), s.SessionExpiresAt(createdAt))
}

func TestStartStop(t *testing.T) {
	clk := testclock.NewClock(time.Now())
	s := newTestSweeper(&fakeStore{}, clk)

	require.Equal(t, "stopped", s.Status())

	s.Start()
	assert.Contains(t, s.Status(), "running")
	s.Start() // second start is a no-op
	assert.Contains(t, s.Status(), "running")

	s.Stop()
	assert.Equal(t, "stopped", s.Status())
	s.Stop() // idempotent
}
