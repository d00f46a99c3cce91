package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds environment-based settings
type Config struct {
	AppEnv         string
	ServerAddress  string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string
	StoreBackend   string

	BridgeURL string
	Locale    string
	Timezone  string
	Location  *time.Location

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string
	MQTTTopic     string

	// ReminderHour is the local hour the in-server daily job fires; negative disables it.
	ReminderHour int
	PaceMin      time.Duration
	PaceMax      time.Duration
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("MIGRATIONS_PATH", "./migrations")
	v.SetDefault("STORE_BACKEND", BackendPostgres)
	v.SetDefault("BRIDGE_URL", "http://localhost:3000")
	v.SetDefault("LOCALE", "ar")
	v.SetDefault("TIMEZONE", "Asia/Riyadh")
	v.SetDefault("MQTT_TOPIC", "minbar/dispatch/runs")
	v.SetDefault("REMINDER_HOUR", -1)
	v.SetDefault("PACE_MIN_SECONDS", 120)
	v.SetDefault("PACE_MAX_SECONDS", 300)
}

// Load reads a .env file if present, then the environment, then configFile
// when one is given. Environment variables win over the file.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env file")
	}

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		AppEnv:         v.GetString("APP_ENV"),
		ServerAddress:  v.GetString("SERVER_ADDRESS"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		StoreBackend:   strings.ToLower(v.GetString("STORE_BACKEND")),
		BridgeURL:      v.GetString("BRIDGE_URL"),
		Locale:         v.GetString("LOCALE"),
		Timezone:       v.GetString("TIMEZONE"),
		RedisAddress:   v.GetString("REDIS_ADDRESS"),
		RedisUsername:  v.GetString("REDIS_USERNAME"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		MQTTBrokerURL:  v.GetString("MQTT_BROKER_URL"),
		MQTTTopic:      v.GetString("MQTT_TOPIC"),
		ReminderHour:   v.GetInt("REMINDER_HOUR"),
		PaceMin:        time.Duration(v.GetInt("PACE_MIN_SECONDS")) * time.Second,
		PaceMax:        time.Duration(v.GetInt("PACE_MAX_SECONDS")) * time.Second,
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.ReminderHour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be below 24, got %d", c.ReminderHour)
	}
	if c.PaceMin < 0 || c.PaceMax < c.PaceMin {
		return fmt.Errorf("pace window %s..%s is invalid", c.PaceMin, c.PaceMax)
	}
	return nil
}

// RequireServer checks the settings only the HTTP server needs.
func (c *Config) RequireServer() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "" || c.AppEnv == "development"
}

// Now is the current time in the configured timezone.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}

// SetupLogging points the global logger at the console in development and
// at JSON on stderr everywhere else.
func SetupLogging(c *Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if c.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
