package config

import (
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

var postgresURL = regexp.MustCompile(`^postgres(ql)?://[^\s]+$`)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"SERVER_PORT" envDefault:"3000" validate:"required,numeric"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required,postgresurl"`
	RedisURL    string `env:"REDIS_URL"             validate:"omitempty,url"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090" validate:"numeric"`

	JWTSecret string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	Alg       string        `env:"ALG"       envDefault:"HS256" validate:"oneof=HS256 HS384 HS512"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"1h"    validate:"min=1m"`

	ResendAPIKey     string `env:"RESEND_API_KEY" validate:"required_if=Env production"`
	ResendFrom       string `env:"RESEND_FROM"    validate:"required_if=Env production"`
	ResetLinkBaseURL string `env:"RESET_LINK_BASE_URL" envDefault:"http://localhost:5173" validate:"url"`

	StaticDir   string   `env:"STATIC_DIR"   envDefault:"public"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"5"  validate:"gt=0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10" validate:"min=1"`

	SweepSchedule string `env:"SWEEP_SCHEDULE" envDefault:"@every 1m" validate:"required"`

	SeedOnStart   bool `env:"SEED_ON_START"   envDefault:"true"`
	GiftsPageSize int  `env:"GIFTS_PAGE_SIZE" envDefault:"20" validate:"min=1,max=100"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := newValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("postgresurl", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && postgresURL.MatchString(fl.Field().String())
	})
	return v
}
