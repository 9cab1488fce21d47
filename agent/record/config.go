package record

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Driver string

const (
	DriverFile     Driver = "file"
	DriverPostgres Driver = "postgres"
	DriverUpstash  Driver = "upstash"
)

type Config struct {
	Driver           string        `envconfig:"DRIVER" split_words:"true" default:"file"`
	Dir              string        `envconfig:"DIR" split_words:"true" default:"."`
	PostgresDSN      string        `envconfig:"POSTGRES_DSN" split_words:"true"`
	UpstashURL       string        `envconfig:"UPSTASH_URL" split_words:"true"`
	UpstashToken     string        `envconfig:"UPSTASH_TOKEN" split_words:"true"`
	UpstashKeyPrefix string        `envconfig:"UPSTASH_KEY_PREFIX" split_words:"true" default:"fitfusion:records:"`
	Timeout          time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Open builds the sinks for the configured driver. The returned close function
// releases whatever the driver holds and is never nil.
func Open(ctx context.Context, cfg Config) (Sinks, func() error, error) {
	noop := func() error { return nil }

	switch Driver(strings.ToLower(strings.TrimSpace(cfg.Driver))) {
	case "", DriverFile:
		sinks, err := NewFileSinks(cfg.Dir)
		if err != nil {
			return Sinks{}, noop, err
		}
		return sinks, noop, nil
	case DriverPostgres:
		db, err := OpenPostgres(ctx, cfg.PostgresDSN, cfg.Timeout)
		if err != nil {
			return Sinks{}, noop, err
		}
		return NewPostgresSinks(db), db.Close, nil
	case DriverUpstash:
		client, err := NewUpstashClient(UpstashConfig{
			URL:       cfg.UpstashURL,
			Token:     cfg.UpstashToken,
			KeyPrefix: cfg.UpstashKeyPrefix,
			Timeout:   cfg.Timeout,
		})
		if err != nil {
			return Sinks{}, noop, err
		}
		return NewUpstashSinks(client), noop, nil
	default:
		return Sinks{}, noop, fmt.Errorf("unsupported record driver %q", cfg.Driver)
	}
}
