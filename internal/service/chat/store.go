package chat

import (
	"errors"

	"github.com/advocaid/assistant/backend/internal/model/chat"
)

var (
	ErrEmptyStore      = errors.New("message store is empty")
	ErrMessageNotFound = errors.New("message not found")
)

// Store is the ordered message log of one session. Insertion order is display order.
// It is not synchronised; Session serialises access.
type Store struct {
	messages []chat.Message
}

// NewStore creates a store seeded with the welcome message.
func NewStore(welcome chat.Message) *Store {
	messages := make([]chat.Message, 1, 16)
	messages[0] = welcome
	return &Store{messages: messages}
}

// Append adds a message at the end. Existing entries are never reordered or removed.
func (s *Store) Append(message chat.Message) {
	s.messages = append(s.messages, message)
}

// All returns a copy of the log in insertion order.
func (s *Store) All() []chat.Message {
	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

func (s *Store) Len() int {
	return len(s.messages)
}

// First returns the message at index 0.
func (s *Store) First() (chat.Message, bool) {
	if len(s.messages) == 0 {
		return chat.Message{}, false
	}
	return s.messages[0], true
}

// ReplaceFirst rewrites the text and author of the message at index 0. Its ID and
// CreatedAt are kept, so replacing twice with the same message is a no-op.
func (s *Store) ReplaceFirst(message chat.Message) error {
	if len(s.messages) == 0 {
		return ErrEmptyStore
	}
	first := &s.messages[0]
	first.Text = message.Text
	first.Author = message.Author
	return nil
}

// Get looks up a message by id.
func (s *Store) Get(id string) (chat.Message, bool) {
	for _, m := range s.messages {
		if m.ID == id {
			return m, true
		}
	}
	return chat.Message{}, false
}

// Annotate attaches feedback to a message by id. It is the only post-insert mutation.
func (s *Store) Annotate(id string, feedback chat.Feedback) error {
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Feedback = feedback
			return nil
		}
	}
	return ErrMessageNotFound
}
