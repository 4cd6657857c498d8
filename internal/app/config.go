package app

import (
	"flag"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/seating-session/internal/domain"
)

type Config struct {
	Port               int                   `validate:"gte=1,lte=65535"`
	Env                string                `validate:"oneof=dev staging prod test"`
	EventKey           string                `validate:"required"`
	EventName          string                `validate:"required"`
	Currency           string                `validate:"iso4217"`
	Locale             string                `validate:"locale"`
	Selection          domain.SelectionRules
	HoldTTL            time.Duration         `validate:"gt=0"`
	SessionIdleTimeout time.Duration         `validate:"gt=0"`
	Redis              RedisConfig
	Stripe             StripeConfig
	OtelCollectorUrl   string
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int `validate:"gte=1"`
	MaxIdleConns int `validate:"gte=0"`
	MaxIdleTime  time.Duration
}

type StripeConfig struct {
	SecretKey  string
	SuccessUrl string `validate:"url"`
	FailureUrl string `validate:"url"`
}

func parseFlags(args []string) (Config, bool, error) {
	var cfg Config

	fs := flag.NewFlagSet("seating-session", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "port", 3000, "server port")
	fs.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	fs.StringVar(&cfg.EventKey, "event-key", "", "Identifier of the event whose seating chart is served")
	fs.StringVar(&cfg.EventName, "event-name", "Event", "Display name of the event")
	fs.StringVar(&cfg.Currency, "currency", "USD", "Default basket currency (ISO 4217)")
	fs.StringVar(&cfg.Locale, "locale", "en-US", "Locale used to format prices")
	fs.IntVar(&cfg.Selection.MinSeats, "min-seats", domain.DefaultMinSeats, "Minimum seats per order")
	fs.IntVar(&cfg.Selection.MaxSeats, "max-seats", domain.DefaultMaxSeats, "Maximum seats per order")
	fs.DurationVar(&cfg.HoldTTL, "hold-ttl", 10*time.Minute, "How long a hold token keeps seats reserved")
	fs.DurationVar(&cfg.SessionIdleTimeout, "session-idle-timeout", 20*time.Minute, "Idle time after which a seating session is discarded")

	fs.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL (in-memory sessions and holds when empty)")
	fs.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	fs.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	fs.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	fs.StringVar(&cfg.Stripe.SecretKey, "stripe-key", "", "Stripe secret key (local checkout when empty)")
	fs.StringVar(&cfg.Stripe.SuccessUrl, "stripe-success-url", "https://example.com/success.html", "Checkout success page")
	fs.StringVar(&cfg.Stripe.FailureUrl, "stripe-failure-url", "https://example.com/failure.html", "Checkout failure page")

	fs.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector gRPC endpoint")

	displayVersion := fs.Bool("version", false, "Display version and exit")

	err := fs.Parse(args)
	if err != nil {
		return Config{}, false, err
	}

	return cfg, *displayVersion, nil
}

// validate checks cfg and reports problems as a config error.
func (cfg Config) validate(v *validator.Validate) error {
	err := v.Struct(cfg)
	if err != nil {
		return domain.NewError(domain.ErrorKindConfig, fmt.Sprintf("invalid configuration: %v", err), err)
	}

	minSeats, maxSeats := cfg.Selection.MinSeats, cfg.Selection.MaxSeats
	if minSeats > 0 && maxSeats > 0 && minSeats > maxSeats {
		return domain.NewError(
			domain.ErrorKindConfig,
			fmt.Sprintf("min-seats (%d) must not exceed max-seats (%d)", minSeats, maxSeats),
			cfg.Selection,
		)
	}

	return nil
}
