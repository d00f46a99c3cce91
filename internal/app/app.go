// Package app assembles the store, the bridge and the reminder service from
// configuration. The server and the reminders command share it.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/bridge"
	"github.com/Nixie-Tech-LLC/minbar/internal/config"
	"github.com/Nixie-Tech-LLC/minbar/internal/db"
	"github.com/Nixie-Tech-LLC/minbar/internal/dispatch"
	"github.com/Nixie-Tech-LLC/minbar/internal/events"
	"github.com/Nixie-Tech-LLC/minbar/internal/locale"
	"github.com/Nixie-Tech-LLC/minbar/internal/notify"
	"github.com/Nixie-Tech-LLC/minbar/internal/redis"
)

const pingTimeout = 5 * time.Second

type Services struct {
	Config *config.Config
	Locale locale.Locale
	Store  db.Store
	Bridge *bridge.Client
	Notify *notify.Service

	publisher events.Publisher
	closers   []func()
}

// New wires everything cfg asks for. clientID names this process to the
// MQTT broker; extra publishers receive run summaries alongside MQTT.
func New(cfg *config.Config, clientID string, extra ...events.Publisher) (*Services, error) {
	loc, err := locale.ByName(cfg.Locale)
	if err != nil {
		return nil, err
	}
	s := &Services{Config: cfg, Locale: loc}

	if err := s.initStore(); err != nil {
		s.Close()
		return nil, err
	}
	s.Bridge = bridge.New(cfg.BridgeURL)

	engine := dispatch.NewEngine(s.Bridge,
		dispatch.WithPacer(dispatch.NewRandomPacer(cfg.PaceMin, cfg.PaceMax)),
		dispatch.WithGuard(s.initGuard()),
	)
	s.publisher = s.initPublisher(clientID, extra)
	s.Notify = notify.NewService(s.Store, engine, loc,
		notify.WithClock(cfg.Now),
		notify.WithPublisher(s.publisher),
	)
	return s, nil
}

func (s *Services) initStore() error {
	switch s.Config.StoreBackend {
	case config.BackendMemory:
		log.Warn().Msg("using in-memory store, data is lost on exit")
		s.Store = db.NewMemoryStore()
		return nil
	default:
		if err := db.Init(s.Config.DatabaseURL); err != nil {
			return fmt.Errorf("db init: %w", err)
		}
		s.closers = append(s.closers, func() { _ = db.DB.Close() })
		if err := db.RunMigrations(s.Config.MigrationsPath); err != nil {
			return fmt.Errorf("db migrate: %w", err)
		}
		s.Store = db.NewStore(db.DB)
		return nil
	}
}

// initGuard returns the Redis send guard when REDIS_ADDRESS is set. An
// unreachable server is logged but kept: the client reconnects on its own and
// a failed claim does not block a send.
func (s *Services) initGuard() dispatch.Guard {
	if s.Config.RedisAddress == "" {
		log.Info().Msg("no REDIS_ADDRESS, overlapping runs are not deduplicated")
		return dispatch.NopGuard{}
	}
	redis.InitRedis(s.Config.RedisAddress, s.Config.RedisUsername, s.Config.RedisPassword)
	s.closers = append(s.closers, func() { _ = redis.Rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := redis.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("address", s.Config.RedisAddress).Msg("redis not answering, send guard may be degraded")
	} else {
		log.Info().Str("address", s.Config.RedisAddress).Msg("redis send guard enabled")
	}
	return redis.NewSendGuard(redis.Rdb, redis.DefaultGuardTTL)
}

func (s *Services) initPublisher(clientID string, extra []events.Publisher) events.Publisher {
	pubs := append(events.Multi{}, extra...)
	if url := s.Config.MQTTBrokerURL; url != "" {
		client, err := events.CreateMQTTClient(url, clientID)
		if err != nil {
			log.Warn().Err(err).Msg("run summaries will not reach MQTT")
		} else {
			pubs = append(pubs, events.NewMQTTPublisher(client, s.Config.MQTTTopic))
		}
	}
	switch len(pubs) {
	case 0:
		return events.Nop{}
	case 1:
		return pubs[0]
	}
	return pubs
}

// Close releases connections in reverse order of opening.
func (s *Services) Close() {
	if s.publisher != nil {
		s.publisher.Close()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
