package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/advocaid/assistant/backend/internal/config"
	"github.com/advocaid/assistant/backend/internal/model/category"
	"github.com/advocaid/assistant/backend/internal/model/persona"
	"github.com/advocaid/assistant/backend/internal/service/ai"
	chatService "github.com/advocaid/assistant/backend/internal/service/chat"
	"github.com/advocaid/assistant/backend/internal/service/prompt"
	"github.com/advocaid/assistant/backend/internal/service/topic"
)

// app holds the services shared by serve and chat.
type app struct {
	personas   persona.Store
	persona    persona.Persona
	categories category.Store
	backend    ai.Backend
	chat       *chatService.Service
}

// loadCategories returns the catalog file when configured, otherwise the built-in seed.
func loadCategories(path string) ([]category.Category, string, error) {
	if path == "" {
		return category.Seed(), "", nil
	}
	catalog, err := category.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	return catalog.Categories, catalog.Default, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	personas := persona.NewMemoryStore(persona.Seed())
	active, err := persona.Select(personas, cfg.Chat.Persona)
	if err != nil {
		return nil, err
	}

	items, defaultPreamble, err := loadCategories(cfg.Chat.CategoriesFile)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	categories := category.NewMemoryStore(items)

	var builderOpts []prompt.Option
	if defaultPreamble != "" {
		builderOpts = append(builderOpts, prompt.WithDefaultPreamble(defaultPreamble))
	}
	prompts := prompt.NewBuilder(active, builderOpts...)

	backend := ai.NewBackend(ctx, cfg.AI, cfg.Chat, active, logger)

	suggester, err := topic.NewService(ctx, backend.ChatModel, categories.ListDomain(active.Domain), topic.Config{
		Enabled:         cfg.AI.TopicLLMEnabled,
		CandidatesLimit: cfg.AI.TopicCandidatesLimit,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init topic suggestions: %w", err)
	}
	if suggester.Enabled() {
		logger.Info("topic classifier enabled")
	} else {
		logger.Debug("topic suggestions use keyword matching")
	}

	svc := chatService.NewService(prompts, backend.Fetcher,
		chatService.WithCategories(categories),
		chatService.WithSuggester(suggester),
		chatService.WithFetchTimeout(cfg.Chat.FetchTimeout),
		chatService.WithDefaultLanguage(cfg.Chat.DefaultLanguage),
		chatService.WithLogger(logger),
	)

	return &app{
		personas:   personas,
		persona:    active,
		categories: categories,
		backend:    backend,
		chat:       svc,
	}, nil
}
