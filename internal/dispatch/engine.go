// Package dispatch sends a batch of composed messages through the messaging
// bridge, one recipient at a time, and tallies the outcome.
package dispatch

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrBridgeNotReady = errors.New("messaging bridge is not ready; make sure it is running and authenticated")

// Sender is the subset of the bridge client the engine needs.
type Sender interface {
	IsReady(ctx context.Context) bool
	Send(ctx context.Context, phone, text string) (bool, string)
}

// Target is one message for one recipient. Key identifies the notification
// for duplicate suppression and may be empty.
type Target struct {
	Key       string `json:"key,omitempty"`
	Recipient string `json:"recipient"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

type Outcome struct {
	Recipient string `json:"recipient"`
	Phone     string `json:"phone"`
	Success   bool   `json:"success"`
	Skipped   bool   `json:"skipped,omitempty"`
	Detail    string `json:"detail"`
}

type Result struct {
	Sent    int       `json:"sent"`
	Failed  int       `json:"failed"`
	Skipped int       `json:"skipped"`
	Details []Outcome `json:"details"`
}

type Options struct {
	// Pace waits a random interval between consecutive recipients.
	Pace bool
}

type Engine struct {
	sender Sender
	pacer  Pacer
	guard  Guard
}

type EngineOption func(*Engine)

func WithPacer(p Pacer) EngineOption {
	return func(e *Engine) { e.pacer = p }
}

func WithGuard(g Guard) EngineOption {
	return func(e *Engine) { e.guard = g }
}

func NewEngine(sender Sender, opts ...EngineOption) *Engine {
	e := &Engine{
		sender: sender,
		pacer:  NewRandomPacer(DefaultPaceMin, DefaultPaceMax),
		guard:  NopGuard{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dispatch sends every target in order. A failed recipient never stops the
// run; a bridge that is not ready stops it before anything is sent. When ctx
// is cancelled the partial result is returned with ctx's error.
func (e *Engine) Dispatch(ctx context.Context, targets []Target, opts Options) (Result, error) {
	res := Result{Details: make([]Outcome, 0, len(targets))}
	if len(targets) == 0 {
		return res, nil
	}
	if !e.sender.IsReady(ctx) {
		log.Error().Int("targets", len(targets)).Msg("dispatch aborted: bridge not ready")
		return res, ErrBridgeNotReady
	}

	for i, t := range targets {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		out := e.deliver(ctx, t)
		switch {
		case out.Skipped:
			res.Skipped++
		case out.Success:
			res.Sent++
		default:
			res.Failed++
		}
		res.Details = append(res.Details, out)

		if opts.Pace && i < len(targets)-1 {
			if err := e.pacer.Wait(ctx, i+1, len(targets)); err != nil {
				return res, err
			}
		}
	}

	log.Info().
		Int("sent", res.Sent).
		Int("failed", res.Failed).
		Int("skipped", res.Skipped).
		Msg("dispatch finished")
	return res, nil
}

func (e *Engine) deliver(ctx context.Context, t Target) Outcome {
	out := Outcome{Recipient: t.Recipient, Phone: strings.TrimSpace(t.Phone)}
	if out.Phone == "" {
		out.Detail = "no phone number on record"
		log.Warn().Str("recipient", t.Recipient).Msg("skipping send: no phone number")
		return out
	}

	if t.Key != "" {
		claimed, err := e.guard.Acquire(ctx, t.Key)
		if err != nil {
			// the guard is best effort; an unavailable store must not block reminders
			log.Error().Err(err).Str("key", t.Key).Msg("dedupe guard unavailable")
		} else if !claimed {
			out.Skipped = true
			out.Detail = "already sent by another run"
			log.Info().Str("key", t.Key).Str("recipient", t.Recipient).Msg("skipping duplicate send")
			return out
		}
	}

	out.Success, out.Detail = e.sender.Send(ctx, out.Phone, t.Message)
	if out.Success {
		log.Info().Str("recipient", t.Recipient).Str("phone", out.Phone).Msg("sent")
		return out
	}

	log.Error().Str("recipient", t.Recipient).Str("phone", out.Phone).Str("detail", out.Detail).Msg("send failed")
	if t.Key != "" {
		if err := e.guard.Release(ctx, t.Key); err != nil {
			log.Error().Err(err).Str("key", t.Key).Msg("release dedupe key")
		}
	}
	return out
}
