// Package notify selects who to message for each reminder flow, composes the
// texts and hands them to the dispatch engine.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/calendar"
	"github.com/Nixie-Tech-LLC/minbar/internal/db"
	"github.com/Nixie-Tech-LLC/minbar/internal/dispatch"
	"github.com/Nixie-Tech-LLC/minbar/internal/events"
	"github.com/Nixie-Tech-LLC/minbar/internal/locale"
)

const (
	FlowDay        = "day"
	FlowWeek       = "week"
	FlowMosques    = "mosques"
	FlowMosqueWeek = "mosques_week"

	// MaxDaysAhead is the furthest day a single-day flow can target.
	MaxDaysAhead   = 6
	publishTimeout = 10 * time.Second
)

var (
	ErrNoSchedules   = errors.New("no schedules found for the selected day")
	ErrInvalidOffset = fmt.Errorf("days ahead must be between 0 and %d", MaxDaysAhead)
)

// Request carries the caller's choices common to every flow.
type Request struct {
	DryRun bool
	Pace   bool
	Extra  string
}

type Preview struct {
	Recipient string `json:"recipient"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

// Report is what a flow did. A dry run fills Previews and leaves the counts
// at zero; a live run fills the counts and Details.
type Report struct {
	Flow   string `json:"flow"`
	Date   string `json:"date"`
	DryRun bool   `json:"dry_run"`
	dispatch.Result
	Previews []Preview `json:"previews,omitempty"`
}

type Service struct {
	store     db.Store
	engine    *dispatch.Engine
	loc       locale.Locale
	publisher events.Publisher
	now       func() time.Time
}

type Option func(*Service)

// WithClock sets the source of "now"; its location decides what today is.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func NewService(store db.Store, engine *dispatch.Engine, loc locale.Locale, opts ...Option) *Service {
	s := &Service{
		store:     store,
		engine:    engine,
		loc:       loc,
		publisher: events.Nop{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is local midnight of the current day.
func (s *Service) Today() time.Time {
	return calendar.StartOfDay(s.now())
}

// Locale is the language messages are composed in.
func (s *Service) Locale() locale.Locale {
	return s.loc
}

func (s *Service) dayAhead(offset int) (calendar.Day, error) {
	if offset < 0 || offset > MaxDaysAhead {
		return calendar.Day{}, ErrInvalidOffset
	}
	return calendar.Describe(calendar.AddDays(s.Today(), offset), s.loc)
}

// run either previews targets or dispatches them, then reports the run.
func (s *Service) run(ctx context.Context, flow, date string, targets []dispatch.Target, req Request) (Report, error) {
	rep := Report{Flow: flow, Date: date, DryRun: req.DryRun}
	if req.DryRun {
		rep.Details = []dispatch.Outcome{}
		rep.Previews = make([]Preview, len(targets))
		for i, t := range targets {
			rep.Previews[i] = Preview{Recipient: t.Recipient, Phone: t.Phone, Message: t.Message}
		}
		log.Info().Str("flow", flow).Str("date", date).Int("targets", len(targets)).Msg("dry run composed")
		return rep, nil
	}

	started := s.now()
	log.Info().Str("flow", flow).Str("date", date).Int("targets", len(targets)).Bool("pace", req.Pace).Msg("dispatch starting")
	res, err := s.engine.Dispatch(ctx, targets, dispatch.Options{Pace: req.Pace})
	rep.Result = res
	s.publish(ctx, events.RunSummary{
		Flow:       flow,
		Date:       date,
		Targets:    len(targets),
		Sent:       res.Sent,
		Failed:     res.Failed,
		Skipped:    res.Skipped,
		Error:      errString(err),
		StartedAt:  started,
		FinishedAt: s.now(),
	})
	return rep, err
}

// publish outlives a cancelled request so an interrupted run is still announced.
func (s *Service) publish(ctx context.Context, run events.RunSummary) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishRun(ctx, run); err != nil {
		log.Error().Err(err).Str("flow", run.Flow).Msg("failed to publish run summary")
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
