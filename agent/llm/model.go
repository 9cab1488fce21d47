package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/fitfusion-assistant/agent/contract"
	"github.com/tanpawarit/fitfusion-assistant/agent/tool"
	openrouterx "github.com/tanpawarit/fitfusion-assistant/pkg/openrouter"
)

// NewChatModel builds the configured provider with catalog bound.
func NewChatModel(ctx context.Context, cfg Config, catalog tool.Catalog) (contractx.ChatModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.provider() {
	case ProviderGemini:
		log.Info().Str("provider", string(ProviderGemini)).Str("model", cfg.GeminiModel()).Msg("chat model configured")
		return NewGeminiChatModel(ctx, cfg, catalog)
	default:
		orCfg := cfg.OpenRouter()
		if cfg.VerifyOnStart {
			if err := openrouterx.Verify(ctx, orCfg); err != nil {
				return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
			}
		}
		base, err := openrouterx.New(ctx, orCfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
		}
		log.Info().Str("provider", string(ProviderOpenRouter)).Str("model", orCfg.Model).Msg("chat model configured")
		return NewEinoChatModel(ctx, base, catalog)
	}
}
