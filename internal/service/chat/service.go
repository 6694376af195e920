package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/advocaid/assistant/backend/internal/model/category"
	"github.com/advocaid/assistant/backend/internal/model/chat"
	"github.com/advocaid/assistant/backend/internal/service/fetch"
	"github.com/advocaid/assistant/backend/internal/service/prompt"
	"github.com/advocaid/assistant/backend/internal/service/topic"
)

var ErrSessionNotFound = errors.New("session not found")

// Suggester proposes a category for text typed into an uncategorised session.
type Suggester interface {
	Suggest(ctx context.Context, text string) (topic.Suggestion, bool)
}

// Service keeps live sessions in memory and runs turns against the fetcher.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	prompts         *prompt.Builder
	fetcher         fetch.Fetcher
	categories      category.Store
	suggester       Suggester
	fetchTimeout    time.Duration
	defaultLanguage chat.Language
	sessionOpts     []SessionOption
	logger          *slog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithCategories sets the catalog used to resolve session categories.
func WithCategories(store category.Store) Option {
	return func(s *Service) { s.categories = store }
}

// WithSuggester enables category suggestions for uncategorised sessions.
func WithSuggester(suggester Suggester) Option {
	return func(s *Service) { s.suggester = suggester }
}

// WithFetchTimeout bounds each fetch. Zero keeps the client's own timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) { s.fetchTimeout = d }
}

// WithDefaultLanguage sets the language of sessions created without one.
func WithDefaultLanguage(lang chat.Language) Option {
	return func(s *Service) { s.defaultLanguage = lang }
}

// WithSessionOptions applies options to every new session.
func WithSessionOptions(opts ...SessionOption) Option {
	return func(s *Service) { s.sessionOpts = append(s.sessionOpts, opts...) }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService bootstraps the in-memory chat service. The fetcher is injected so
// tests and the CLI can substitute their own strategy.
func NewService(prompts *prompt.Builder, fetcher fetch.Fetcher, opts ...Option) *Service {
	s := &Service{
		sessions:        make(map[string]*Session),
		prompts:         prompts,
		fetcher:         fetcher,
		categories:      category.NewMemoryStore(nil),
		defaultLanguage: chat.LanguageEnglish,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prompts exposes the builder, mainly for the disclaimer and persona.
func (s *Service) Prompts() *prompt.Builder {
	return s.prompts
}

// CreateSession provisions a session. categoryRef may be an ID, a title or a
// free-form label; lang may be empty to use the default.
func (s *Service) CreateSession(_ context.Context, categoryRef string, lang chat.Language) (*Session, error) {
	if lang == "" {
		lang = s.defaultLanguage
	}

	var c *category.Category
	if categoryRef != "" {
		if resolved, ok := s.categories.Resolve(categoryRef); ok {
			c = &resolved
		} else {
			c = &category.Category{Title: categoryRef}
		}
	}

	session := NewSession(uuid.NewString(), c, lang, s.prompts, s.sessionOpts...)

	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	s.logger.Info("session created", "session", session.ID(), "category", categoryRef, "language", lang)
	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DeleteSession discards a session and its history.
func (s *Service) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	s.logger.Info("session deleted", "session", sessionID)
	return nil
}

// Len returns the number of live sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SendResult is the outcome of one turn.
type SendResult struct {
	User       chat.Message      `json:"user"`
	Bot        chat.Message      `json:"bot"`
	Failure    fetch.Kind        `json:"failure,omitempty"`
	Suggestion *topic.Suggestion `json:"suggestion,omitempty"`
}

// Pending is an accepted turn whose reply has not been fetched yet.
// Resolve must be called exactly once.
type Pending struct {
	svc     *Service
	session *Session
	turn    Turn
}

// UserMessage is the message appended when the turn was accepted.
func (p *Pending) UserMessage() chat.Message {
	return p.turn.User
}

// Submit accepts a user message and leaves the session AwaitingResponse.
func (s *Service) Submit(ctx context.Context, sessionID, text string) (*Pending, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	turn, err := session.Submit(text)
	if err != nil {
		s.logger.Debug("submission ignored", "session", sessionID, "reason", err)
		return nil, err
	}
	return &Pending{svc: s, session: session, turn: turn}, nil
}

// Resolve fetches the reply and returns the session to Idle. Caller cancellation
// does not abort the fetch; only the configured fetch timeout bounds it.
func (p *Pending) Resolve(ctx context.Context) SendResult {
	s := p.svc
	fetchCtx := context.WithoutCancel(ctx)
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(fetchCtx, s.fetchTimeout)
		defer cancel()
	}

	start := time.Now()
	outcome := fetch.Resolve(fetchCtx, s.fetcher, p.turn.Prompt, s.prompts.Disclaimer())
	bot, _ := p.session.ResponseArrived(outcome.Text)

	result := SendResult{User: p.turn.User, Bot: bot}
	attrs := []any{"session", p.session.ID(), "duration_ms", time.Since(start).Milliseconds()}
	if outcome.Failed() {
		result.Failure = outcome.Err.Kind
		s.logger.Warn("fetch failed, sent fallback", append(attrs, "kind", outcome.Err.Kind, "error", outcome.Err.Err)...)
	} else {
		s.logger.Info("turn completed", append(attrs, "length", len(outcome.Text))...)
	}

	if c := p.session.Category(); (c == nil || !c.Known()) && s.suggester != nil && p.turn.Text != "" {
		if suggestion, ok := s.suggester.Suggest(fetchCtx, p.turn.Text); ok {
			result.Suggestion = &suggestion
		}
	}
	return result
}

// Send runs a full turn: submit, fetch, append reply.
func (s *Service) Send(ctx context.Context, sessionID, text string) (SendResult, error) {
	pending, err := s.Submit(ctx, sessionID, text)
	if err != nil {
		return SendResult{}, err
	}
	return pending.Resolve(ctx), nil
}
