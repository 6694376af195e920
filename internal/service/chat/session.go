package chat

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/advocaid/assistant/backend/internal/model/category"
	"github.com/advocaid/assistant/backend/internal/model/chat"
	"github.com/advocaid/assistant/backend/internal/service/prompt"
)

// Guard rejections. Submit leaves the session untouched when it returns one of these.
var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("a response is already pending")
)

var (
	ErrAttachmentType = errors.New("file type is not allowed")
	ErrFeedbackTarget = errors.New("feedback applies to bot messages only")
)

// AllowedExtensions is the file picker allow-list (documents and images).
var AllowedExtensions = []string{".pdf", ".doc", ".docx", ".txt", ".jpg", ".jpeg", ".png"}

// IsGuardRejection reports whether err is a silently ignorable submit rejection.
func IsGuardRejection(err error) bool {
	return errors.Is(err, ErrEmptyMessage) || errors.Is(err, ErrBusy)
}

// Turn is an accepted submission: the appended user message and the prompt to fetch.
type Turn struct {
	User   chat.Message
	Prompt string
	// Text is the trimmed user input without attachment metadata.
	Text string
}

// Session is the chat state machine for one conversation.
// States are Idle and AwaitingResponse; at most one fetch is outstanding.
type Session struct {
	mu sync.Mutex

	id        string
	createdAt time.Time
	category  *category.Category
	language  chat.Language
	status    chat.Status

	draft       string
	attachments []chat.Attachment

	store   *Store
	prompts *prompt.Builder
	newID   func() string
	now     func() time.Time
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithClock replaces time.Now for message timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator replaces uuid.NewString for message ids.
func WithIDGenerator(newID func() string) SessionOption {
	return func(s *Session) { s.newID = newID }
}

// NewSession creates an Idle session seeded with the welcome message.
// c may be nil; a category without ID is a free-form label.
func NewSession(id string, c *category.Category, lang chat.Language, prompts *prompt.Builder, opts ...SessionOption) *Session {
	s := &Session{
		id:       id,
		language: lang,
		status:   chat.StatusIdle,
		prompts:  prompts,
		newID:    uuid.NewString,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if c != nil {
		copied := *c
		s.category = &copied
	}
	s.createdAt = s.now()
	s.store = NewStore(s.newMessage(chat.AuthorBot, prompts.Welcome(s.category, lang)))
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Category returns the immutable session category, or nil.
func (s *Session) Category() *category.Category {
	if s.category == nil {
		return nil
	}
	copied := *s.category
	return &copied
}

func (s *Session) Language() chat.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

func (s *Session) Status() chat.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Messages returns the message log in display order.
func (s *Session) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All()
}

// Message looks up one message by id.
func (s *Session) Message(id string) (chat.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(id)
}

// Submit moves Idle to AwaitingResponse. It rejects blank input without attachments
// and any submission while a response is pending; both rejections are no-ops.
func (s *Session) Submit(text string) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" && len(s.attachments) == 0 {
		return Turn{}, ErrEmptyMessage
	}
	if s.status != chat.StatusIdle {
		return Turn{}, ErrBusy
	}

	body := withAttachmentNote(trimmed, s.attachments)
	user := s.newMessage(chat.AuthorUser, body)
	s.store.Append(user)
	s.draft = ""
	s.attachments = nil
	s.status = chat.StatusAwaitingResponse

	return Turn{
		User:   user,
		Prompt: s.prompts.Build(body, s.category, s.language),
		Text:   trimmed,
	}, nil
}

// ResponseArrived appends the bot reply and returns to Idle. It is ignored while Idle.
func (s *Session) ResponseArrived(text string) (chat.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != chat.StatusAwaitingResponse {
		return chat.Message{}, false
	}
	bot := s.newMessage(chat.AuthorBot, text)
	s.store.Append(bot)
	s.status = chat.StatusIdle
	return bot, true
}

// ChangeLanguage updates the preference and rewrites only the welcome message.
func (s *Session) ChangeLanguage(lang chat.Language) chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.language = lang
	_ = s.store.ReplaceFirst(chat.Message{Author: chat.AuthorBot, Text: s.prompts.Welcome(s.category, lang)})
	first, _ := s.store.First()
	return first
}

func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// AddAttachment records file metadata for the next submission. A file with the
// same name replaces the earlier entry.
func (s *Session) AddAttachment(a chat.Attachment) error {
	name := strings.TrimSpace(filepath.Base(a.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("attachment filename is required")
	}
	if a.SizeBytes < 0 {
		return fmt.Errorf("attachment size must not be negative")
	}
	if !allowedExtension(name) {
		return fmt.Errorf("%w: %s", ErrAttachmentType, filepath.Ext(name))
	}
	a.Filename = name

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.attachments {
		if s.attachments[i].Filename == name {
			s.attachments[i] = a
			return nil
		}
	}
	s.attachments = append(s.attachments, a)
	return nil
}

// RemoveAttachment drops a pending attachment by filename.
func (s *Session) RemoveAttachment(filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.attachments {
		if s.attachments[i].Filename == filename {
			s.attachments = append(s.attachments[:i], s.attachments[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Session) Attachments() []chat.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Attachment(nil), s.attachments...)
}

// Feedback annotates a bot message with like, dislike or none.
func (s *Session) Feedback(messageID string, feedback chat.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.store.Get(messageID)
	if !ok {
		return ErrMessageNotFound
	}
	if !m.IsBot() {
		return ErrFeedbackTarget
	}
	return s.store.Annotate(messageID, feedback)
}

// Snapshot returns a consistent view for rendering.
func (s *Session) Snapshot() chat.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := chat.Snapshot{
		ID:          s.id,
		Language:    s.language,
		Status:      s.status,
		Draft:       s.draft,
		Attachments: append([]chat.Attachment{}, s.attachments...),
		Messages:    s.store.All(),
		CreatedAt:   s.createdAt,
	}
	if s.category != nil {
		snap.Category = s.category.Title
		snap.CategoryID = s.category.ID
	}
	return snap
}

func (s *Session) newMessage(author chat.Author, text string) chat.Message {
	return chat.Message{
		ID:        s.newID(),
		Text:      text,
		Author:    author,
		CreatedAt: s.now(),
	}
}

func withAttachmentNote(text string, attachments []chat.Attachment) string {
	if len(attachments) == 0 {
		return text
	}
	names := make([]string, 0, len(attachments))
	for _, a := range attachments {
		names = append(names, a.Filename)
	}
	note := "[Attached: " + strings.Join(names, ", ") + "]"
	if text == "" {
		return note
	}
	return text + "\n\n" + note
}

func allowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
