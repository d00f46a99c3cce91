package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t atomic.Value }

func newClock(t time.Time) *fakeClock {
	c := &fakeClock{}
	c.t.Store(t)
	return c
}

func (c *fakeClock) Now() time.Time { return c.t.Load().(time.Time) }

func (c *fakeClock) Set(t time.Time) { c.t.Store(t) }

func TestTick_RunsOncePerDay(t *testing.T) {
	clock := newClock(time.Date(2025, time.April, 13, 6, 0, 0, 0, time.UTC))
	var runs int
	s := NewDailyScheduler(8, func(context.Context) error { runs++; return nil }, WithClock(clock.Now))
	ctx := context.Background()

	assert.False(t, s.tick(ctx), "before the hour")

	clock.Set(time.Date(2025, time.April, 13, 8, 0, 0, 0, time.UTC))
	assert.True(t, s.tick(ctx))
	clock.Set(time.Date(2025, time.April, 13, 21, 0, 0, 0, time.UTC))
	assert.False(t, s.tick(ctx), "already ran today")

	clock.Set(time.Date(2025, time.April, 14, 8, 1, 0, 0, time.UTC))
	assert.True(t, s.tick(ctx))
	assert.Equal(t, 2, runs)
}

func TestTick_FailedJobIsNotRetriedSameDay(t *testing.T) {
	clock := newClock(time.Date(2025, time.April, 13, 9, 0, 0, 0, time.UTC))
	var runs int
	s := NewDailyScheduler(8, func(context.Context) error { runs++; return errors.New("bridge down") }, WithClock(clock.Now))

	assert.True(t, s.tick(context.Background()))
	assert.False(t, s.tick(context.Background()))
	assert.Equal(t, 1, runs)
}

func TestStartStop(t *testing.T) {
	clock := newClock(time.Date(2025, time.April, 13, 9, 0, 0, 0, time.UTC))
	ran := make(chan struct{}, 1)
	s := NewDailyScheduler(0, func(context.Context) error {
		ran <- struct{}{}
		return nil
	}, WithClock(clock.Now), WithInterval(10*time.Millisecond))

	s.Start(context.Background())
	select {
	case <-ran:
	case <-time.After(time.Second):
		require.Fail(t, "job did not run")
	}
	s.Stop()
	s.Stop()
}

func TestStopCancelsRunningJob(t *testing.T) {
	clock := newClock(time.Date(2025, time.April, 13, 9, 0, 0, 0, time.UTC))
	started := make(chan struct{})
	var cancelled atomic.Bool
	s := NewDailyScheduler(0, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}, WithClock(clock.Now), WithInterval(time.Hour))

	s.Start(context.Background())
	<-started
	s.Stop()
	assert.True(t, cancelled.Load())
}
