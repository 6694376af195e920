// Package fetch obtains bot replies from the generative service or a simulated stand-in.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// Fetcher turns a finished prompt into reply text. On success the text ends with the disclaimer.
type Fetcher interface {
	FetchResponse(ctx context.Context, prompt string) (string, error)
}

// Kind classifies fetch failures.
type Kind string

const (
	KindAuth    Kind = "auth"
	KindNetwork Kind = "network"
	KindUnknown Kind = "unknown"
)

// ErrMissingCredential is returned when the configured provider has no API credential.
var ErrMissingCredential = errors.New("generative service credential is not configured")

// Error is a classified fetch failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var authMarkers = []string{
	"401", "403", "unauthorized", "unauthenticated", "forbidden",
	"api key", "api_key", "apikey", "invalid key", "permission denied",
	"authentication", "credential", "access denied",
}

var networkMarkers = []string{
	"connection refused", "connection reset", "no such host", "network is unreachable",
	"i/o timeout", "tls handshake", "eof", "dial tcp", "broken pipe",
}

// Classify maps provider and transport errors onto a Kind. It returns nil for a nil error.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}

	if errors.Is(err, ErrMissingCredential) {
		return &Error{Kind: KindAuth, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return &Error{Kind: KindNetwork, Err: err}
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return &Error{Kind: KindNetwork, Err: err}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range authMarkers {
		if strings.Contains(msg, marker) {
			return &Error{Kind: KindAuth, Err: err}
		}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindNetwork, Err: err}
	}
	for _, marker := range networkMarkers {
		if strings.Contains(msg, marker) {
			return &Error{Kind: KindNetwork, Err: err}
		}
	}

	return &Error{Kind: KindUnknown, Err: err}
}

var fallbackText = map[Kind]string{
	KindAuth:    "I'm sorry, I couldn't reach the assistant service because its access credentials are missing or invalid. Please try again later, or contact support if the issue persists.",
	KindNetwork: "I'm sorry, I couldn't connect to the assistant service. Please check your internet connection and try sending your message again.",
	KindUnknown: "I apologize, but I'm experiencing some technical difficulties. Please try again later or contact support if the issue persists.",
}

// Fallback returns the user-facing guidance for a failure kind, ending with the disclaimer.
func Fallback(kind Kind, disclaimer string) string {
	text, ok := fallbackText[kind]
	if !ok {
		text = fallbackText[KindUnknown]
	}
	return WithDisclaimer(text, disclaimer)
}

// WithDisclaimer appends the disclaimer unless the text already ends with it.
func WithDisclaimer(text, disclaimer string) string {
	text = strings.TrimSpace(text)
	disclaimer = strings.TrimSpace(disclaimer)
	if disclaimer == "" || strings.HasSuffix(text, disclaimer) {
		return text
	}
	if text == "" {
		return disclaimer
	}
	return text + "\n\n" + disclaimer
}

// Outcome is the absorbed result of one fetch: always usable text, plus the failure if any.
type Outcome struct {
	Text string
	Err  *Error
}

// Failed reports whether the text is a fallback.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Resolve runs a single fetch attempt and converts any failure into fallback text.
func Resolve(ctx context.Context, f Fetcher, prompt, disclaimer string) Outcome {
	text, err := f.FetchResponse(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty response from generative service")
	}
	if err != nil {
		classified := Classify(err)
		return Outcome{Text: Fallback(classified.Kind, disclaimer), Err: classified}
	}
	return Outcome{Text: WithDisclaimer(text, disclaimer)}
}
