package session

import (
	"fmt"
	"time"

	contractx "github.com/tanpawarit/fitfusion-assistant/agent/contract"
)

type Config struct {
	MaxToolRounds int           `envconfig:"MAX_TOOL_ROUNDS" split_words:"true" default:"5"`
	HistoryLimit  int           `envconfig:"HISTORY_LIMIT" split_words:"true" default:"40"`
	ModelTimeout  time.Duration `envconfig:"MODEL_TIMEOUT" split_words:"true" default:"30s"`
	IdleTTL       time.Duration `envconfig:"IDLE_TTL" split_words:"true" default:"30m"`
	Capacity      int           `envconfig:"CAPACITY" split_words:"true" default:"10000"`
}

// DefaultConfig mirrors the envconfig defaults for callers that skip env loading.
func DefaultConfig() Config {
	return Config{
		MaxToolRounds: 5,
		HistoryLimit:  40,
		ModelTimeout:  30 * time.Second,
		IdleTTL:       30 * time.Minute,
		Capacity:      10000,
	}
}

func (c Config) Validate() error {
	if c.MaxToolRounds < 1 {
		return fmt.Errorf("%w: max tool rounds must be at least 1", contractx.ErrValidation)
	}
	if c.HistoryLimit < 2 {
		return fmt.Errorf("%w: history limit must be at least 2", contractx.ErrValidation)
	}
	if c.ModelTimeout <= 0 {
		return fmt.Errorf("%w: model timeout must be positive", contractx.ErrValidation)
	}
	if c.IdleTTL <= 0 {
		return fmt.Errorf("%w: idle ttl must be positive", contractx.ErrValidation)
	}
	if c.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", contractx.ErrValidation)
	}
	return nil
}
