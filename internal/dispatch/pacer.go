package dispatch

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultPaceMin = 120 * time.Second
	DefaultPaceMax = 300 * time.Second
)

// Pacer spaces out consecutive sends so bulk traffic does not look automated.
type Pacer interface {
	// Wait blocks between send done (1-based) and the next of total.
	Wait(ctx context.Context, done, total int) error
}

// RandomPacer waits a uniformly random duration in [Min, Max].
type RandomPacer struct {
	Min, Max time.Duration
	rand     func(n int64) int64
}

func NewRandomPacer(min, max time.Duration) *RandomPacer {
	if max < min {
		max = min
	}
	return &RandomPacer{Min: min, Max: max, rand: rand.Int64N}
}

// Delay draws the next interval.
func (p *RandomPacer) Delay() time.Duration {
	span := int64(p.Max - p.Min)
	if span <= 0 {
		return p.Min
	}
	return p.Min + time.Duration(p.rand(span+1))
}

func (p *RandomPacer) Wait(ctx context.Context, done, total int) error {
	d := p.Delay()
	log.Info().
		Dur("delay", d).
		Int("done", done).
		Int("total", total).
		Msgf("waiting %.1f minutes before next message", d.Minutes())

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoPacer sends back to back.
type NoPacer struct{}

func (NoPacer) Wait(context.Context, int, int) error { return nil }
