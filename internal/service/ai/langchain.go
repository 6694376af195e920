package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/advocaid/assistant/backend/internal/config"
	"github.com/advocaid/assistant/backend/internal/service/fetch"
)

// LangchainGenerator wraps a langchaingo model for single-prompt generation.
type LangchainGenerator struct {
	llm       llms.Model
	modelName string
	opts      []llms.CallOption
}

// NewLangchainGenerator wraps an already constructed model.
func NewLangchainGenerator(llm llms.Model, modelName string, opts ...llms.CallOption) *LangchainGenerator {
	return &LangchainGenerator{llm: llm, modelName: modelName, opts: opts}
}

// newLangchainModel creates the provider client selected by configuration.
func newLangchainModel(ctx context.Context, cfg config.AIConfig) (*LangchainGenerator, error) {
	var (
		model llms.Model
		name  string
		err   error
	)

	switch cfg.Provider {
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY: %w", fetch.ErrMissingCredential)
		}
		name = cfg.GeminiModel
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(cfg.GeminiModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create gemini model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY: %w", fetch.ErrMissingCredential)
		}
		name = cfg.OpenAIModel
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.OpenAIModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderOllama:
		name = cfg.OllamaModel
		model, err = ollama.New(
			ollama.WithModel(cfg.OllamaModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported langchain provider: %s", cfg.Provider)
	}

	return NewLangchainGenerator(model, name, callOptions(cfg)...), nil
}

func callOptions(cfg config.AIConfig) []llms.CallOption {
	var opts []llms.CallOption
	if cfg.Temperature != nil {
		opts = append(opts, llms.WithTemperature(*cfg.Temperature))
	}
	if cfg.TopP != nil {
		opts = append(opts, llms.WithTopP(*cfg.TopP))
	}
	if cfg.MaxTokens != nil {
		opts = append(opts, llms.WithMaxTokens(*cfg.MaxTokens))
	}
	return opts
}

// Generate sends the prompt as a single human message.
func (g *LangchainGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, g.opts...)
	if err != nil {
		return "", fmt.Errorf("generate with %s: %w", g.modelName, err)
	}
	return response, nil
}

// Model returns the configured model name.
func (g *LangchainGenerator) Model() string {
	return g.modelName
}
