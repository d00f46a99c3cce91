// Package worker runs the unattended daily reminder job inside the server.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultCheckInterval = time.Minute

type Job func(ctx context.Context) error

// DailyScheduler runs a job once per local day, on the first check at or
// after the configured hour. Days are judged in the clock's location.
type DailyScheduler struct {
	hour     int
	job      Job
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastRun  string
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

type Option func(*DailyScheduler)

func WithClock(now func() time.Time) Option {
	return func(s *DailyScheduler) { s.now = now }
}

func WithInterval(d time.Duration) Option {
	return func(s *DailyScheduler) { s.interval = d }
}

func NewDailyScheduler(hour int, job Job, opts ...Option) *DailyScheduler {
	s := &DailyScheduler{
		hour:     hour,
		job:      job,
		interval: DefaultCheckInterval,
		now:      time.Now,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DailyScheduler) Start(ctx context.Context) {
	go s.run(ctx)
	log.Info().Int("hour", s.hour).Dur("interval", s.interval).Msg("daily reminder scheduler started")
}

// Stop ends the loop and waits for a running job to return.
func (s *DailyScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	<-s.done
	log.Info().Msg("daily reminder scheduler stopped")
}

func (s *DailyScheduler) run(ctx context.Context) {
	defer close(s.done)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// tick runs the job if today's run is due and has not happened yet. It
// reports whether the job ran.
func (s *DailyScheduler) tick(ctx context.Context) bool {
	now := s.now()
	if now.Hour() < s.hour {
		return false
	}
	today := now.Format("2006-01-02")

	s.mu.Lock()
	if s.lastRun == today {
		s.mu.Unlock()
		return false
	}
	s.lastRun = today
	s.mu.Unlock()

	log.Info().Str("date", today).Msg("running daily reminder job")
	if err := s.job(ctx); err != nil {
		log.Error().Err(err).Str("date", today).Msg("daily reminder job failed")
	}
	return true
}
