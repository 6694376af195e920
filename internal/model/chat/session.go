package chat

import (
	"strings"
	"time"
)

// Language is the reply language preference of a session.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageUrdu    Language = "urdu"
	LanguageBoth    Language = "both"
)

// ParseLanguage normalises user input such as "en", "ur" or "Both".
func ParseLanguage(raw string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "english", "en", "en-us", "en-gb":
		return LanguageEnglish, true
	case "urdu", "ur", "ur-pk", "اردو":
		return LanguageUrdu, true
	case "both", "bilingual":
		return LanguageBoth, true
	default:
		return "", false
	}
}

// Status is the state of the session controller.
type Status string

const (
	StatusIdle             Status = "idle"
	StatusAwaitingResponse Status = "awaiting_response"
)

// Snapshot captures a transient conversation for rendering.
type Snapshot struct {
	ID          string       `json:"id"`
	Category    string       `json:"category,omitempty"`
	CategoryID  string       `json:"categoryId,omitempty"`
	Language    Language     `json:"language"`
	Status      Status       `json:"status"`
	Draft       string       `json:"draft"`
	Attachments []Attachment `json:"attachments"`
	Messages    []Message    `json:"messages"`
	CreatedAt   time.Time    `json:"createdAt"`
}
