package fetch

import (
	"context"
	"fmt"
)

// Generator is a single-shot text completion against an external model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelFetcher is the external-call strategy. It makes exactly one attempt per prompt.
type ModelFetcher struct {
	gen        Generator
	disclaimer string
}

// NewModelFetcher wraps an injected generator.
func NewModelFetcher(gen Generator, disclaimer string) *ModelFetcher {
	return &ModelFetcher{gen: gen, disclaimer: disclaimer}
}

func (f *ModelFetcher) FetchResponse(ctx context.Context, prompt string) (string, error) {
	text, err := f.gen.Generate(ctx, prompt)
	if err != nil {
		return "", Classify(fmt.Errorf("generate response: %w", err))
	}
	return WithDisclaimer(text, f.disclaimer), nil
}

type unavailable struct {
	err error
}

// Unavailable returns a Generator that always fails with err. It stands in for a provider
// that could not be constructed, so every turn yields the matching fallback.
func Unavailable(err error) Generator {
	return unavailable{err: err}
}

func (u unavailable) Generate(context.Context, string) (string, error) {
	return "", u.err
}
