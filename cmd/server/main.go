package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/app"
	"github.com/Nixie-Tech-LLC/minbar/internal/config"
	"github.com/Nixie-Tech-LLC/minbar/internal/events"
	"github.com/Nixie-Tech-LLC/minbar/internal/notify"
	"github.com/Nixie-Tech-LLC/minbar/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	config.SetupLogging(cfg)
	if err := cfg.RequireServer(); err != nil {
		log.Fatal().Err(err).Msg("invalid server config")
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := events.NewHub()
	services, err := app.New(cfg, "minbar-server", hub)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}
	defer services.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ReminderHour >= 0 {
		daily := worker.NewDailyScheduler(cfg.ReminderHour, dailyReminders(services.Notify), worker.WithClock(cfg.Now))
		daily.Start(ctx)
		defer daily.Stop()
	}

	r := gin.Default()
	RegisterRoutes(r, cfg, services, hub)

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r}
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Str("locale", services.Locale.Code).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// dailyReminders is the unattended job: today's callers, paced.
func dailyReminders(svc *notify.Service) worker.Job {
	return func(ctx context.Context) error {
		rep, err := svc.RemindDay(ctx, 0, notify.Request{Pace: true})
		if errors.Is(err, notify.ErrNoSchedules) {
			log.Info().Msg("no talks scheduled today")
			return nil
		}
		if err != nil {
			return err
		}
		log.Info().Int("sent", rep.Sent).Int("failed", rep.Failed).Int("skipped", rep.Skipped).Msg("daily reminders done")
		return nil
	}
}
