package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/components/model"

	"github.com/advocaid/assistant/backend/internal/config"
	"github.com/advocaid/assistant/backend/internal/model/persona"
	"github.com/advocaid/assistant/backend/internal/service/fetch"
)

// Backend is the reply strategy selected once at startup.
type Backend struct {
	Fetcher  fetch.Fetcher
	Provider config.Provider
	// ChatModel is set only for the Ark provider; the topic classifier reuses it.
	ChatModel model.ChatModel
	// Err records why the configured provider could not be built. The Fetcher then
	// answers every turn with the matching fallback instead of failing startup.
	Err error
}

// NewBackend builds the fetcher for the configured provider and persona.
func NewBackend(ctx context.Context, aiCfg config.AIConfig, chatCfg config.ChatConfig, p persona.Persona, logger *slog.Logger) Backend {
	if aiCfg.Provider == config.ProviderSimulated || aiCfg.Provider == "" {
		logger.Info("using simulated responses", "persona", p.ID, "min_delay", chatCfg.SimulatedMinDelay, "max_delay", chatCfg.SimulatedMaxDelay)
		return Backend{
			Provider: config.ProviderSimulated,
			Fetcher: fetch.NewSimulatedFetcher(p.CannedResponses, p.Disclaimer,
				fetch.WithDelay(chatCfg.SimulatedMinDelay, chatCfg.SimulatedMaxDelay)),
		}
	}

	gen, chatModel, err := newGenerator(ctx, aiCfg)
	if err != nil {
		logger.Warn("generative provider unavailable, replies will carry fallback guidance", "provider", aiCfg.Provider, "error", err)
		return Backend{
			Provider: aiCfg.Provider,
			Fetcher:  fetch.NewModelFetcher(fetch.Unavailable(err), p.Disclaimer),
			Err:      err,
		}
	}

	logger.Info("generative provider initialized", "provider", aiCfg.Provider, "persona", p.ID)
	return Backend{
		Provider:  aiCfg.Provider,
		Fetcher:   fetch.NewModelFetcher(gen, p.Disclaimer),
		ChatModel: chatModel,
	}
}

func newGenerator(ctx context.Context, cfg config.AIConfig) (fetch.Generator, model.ChatModel, error) {
	switch cfg.Provider {
	case config.ProviderArk:
		if !cfg.ArkEnabled() {
			return nil, nil, fmt.Errorf("ARK_API_KEY/ARK_MODEL: %w", fetch.ErrMissingCredential)
		}
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		gen, err := NewEinoGenerator(ctx, chatModel)
		if err != nil {
			return nil, nil, err
		}
		return gen, chatModel, nil

	case config.ProviderGemini, config.ProviderOpenAI, config.ProviderOllama:
		gen, err := newLangchainModel(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return gen, nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}
