package chat

import "time"

// Author identifies who produced a message.
type Author string

const (
	AuthorUser Author = "user"
	AuthorBot  Author = "bot"
)

// Feedback is the like/dislike annotation a reader may attach to a bot message.
type Feedback string

const (
	FeedbackNone    Feedback = ""
	FeedbackLike    Feedback = "like"
	FeedbackDislike Feedback = "dislike"
)

// ParseFeedback accepts like, dislike or an empty value (clears the annotation).
func ParseFeedback(raw string) (Feedback, bool) {
	switch Feedback(raw) {
	case FeedbackNone, FeedbackLike, FeedbackDislike:
		return Feedback(raw), true
	default:
		return FeedbackNone, false
	}
}

// Message is one entry of the conversation log. Only Feedback may change after insertion.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	Feedback  Feedback  `json:"feedback,omitempty"`
}

// IsBot reports whether the message was produced by the assistant.
func (m Message) IsBot() bool {
	return m.Author == AuthorBot
}

// Attachment is metadata for a file the user picked. Content is never read.
type Attachment struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"sizeBytes"`
}
