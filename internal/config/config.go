package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Finny Schedules"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		Host            string        `envconfig:"DB_HOST" default:"localhost"`
		Port            int           `envconfig:"DB_PORT" default:"5432"`
		User            string        `envconfig:"DB_USER" default:"postgres"`
		Password        string        `envconfig:"DB_PASSWORD" default:""`
		Name            string        `envconfig:"DB_NAME" default:"finny"`
		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Scheduler struct {
		// Sweep is a robfig/cron spec, e.g. "@every 1m" or "*/5 * * * *".
		Sweep    string        `envconfig:"SCHEDULER_SWEEP" default:"@every 1m"`
		Workers  int           `envconfig:"SCHEDULER_WORKERS" default:"4"`
		Timezone string        `envconfig:"SCHEDULER_TIMEZONE" default:"UTC"`
		LockWait time.Duration `envconfig:"SCHEDULER_LOCK_WAIT" default:"10s"`
	}

	Redis struct {
		// Addr left empty keeps series locks in process.
		Addr     string        `envconfig:"REDIS_ADDR"`
		Password string        `envconfig:"REDIS_PASSWORD"`
		DB       int           `envconfig:"REDIS_DB" default:"0"`
		LockTTL  time.Duration `envconfig:"REDIS_LOCK_TTL" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Location resolves Scheduler.Timezone, the calendar that decides which
// occurrence dates are due.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading scheduler timezone %q: %w", c.Scheduler.Timezone, err)
	}

	return loc, nil
}

func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.App.LogLevel))); err != nil {
		return slog.LevelInfo
	}

	return level
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Scheduler.Workers < 1 {
		return nil, fmt.Errorf("SCHEDULER_WORKERS must be at least 1, got %d", cfg.Scheduler.Workers)
	}

	return &cfg, nil
}
