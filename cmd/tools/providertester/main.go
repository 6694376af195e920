package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/advocaid/assistant/backend/internal/config"
	"github.com/advocaid/assistant/backend/internal/model/persona"
	"github.com/advocaid/assistant/backend/internal/service/ai"
	"github.com/advocaid/assistant/backend/internal/service/fetch"
)

const defaultPrompt = "Hello, please respond with a simple greeting in both English and Urdu."

// providertester sends one prompt through the configured provider and reports
// the failure kind, so credentials can be checked without starting the server.
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] .env not loaded, using process environment: %v\n", err)
	}

	provider := flag.String("provider", "", "override AI_PROVIDER (simulated, ark, gemini, openai, ollama)")
	text := flag.String("prompt", defaultPrompt, "prompt to send")
	timeout := flag.Duration("timeout", 45*time.Second, "request timeout")
	flag.Parse()

	if *provider != "" {
		os.Setenv("AI_PROVIDER", *provider)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	logger, closeLog := config.SetupLogger(cfg.Log)
	defer closeLog()

	p, err := persona.Select(persona.NewMemoryStore(persona.Seed()), cfg.Chat.Persona)
	if err != nil {
		logger.Error("persona selection failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	backend := ai.NewBackend(ctx, cfg.AI, cfg.Chat, p, logger)
	start := time.Now()
	outcome := fetch.Resolve(ctx, backend.Fetcher, *text, "")
	elapsed := time.Since(start)

	if outcome.Failed() {
		logger.Error("provider test failed",
			slog.String("provider", string(backend.Provider)),
			slog.String("kind", string(outcome.Err.Kind)),
			slog.Any("error", outcome.Err.Err),
			slog.Duration("elapsed", elapsed))
		fmt.Println(outcome.Text)
		os.Exit(2)
	}

	logger.Info("provider test succeeded", "provider", backend.Provider, "elapsed", elapsed)
	fmt.Println(outcome.Text)
}
