// Package prompt turns a user question into the text sent to the generative service.
package prompt

import (
	"fmt"
	"strings"

	"github.com/advocaid/assistant/backend/internal/model/category"
	"github.com/advocaid/assistant/backend/internal/model/chat"
	"github.com/advocaid/assistant/backend/internal/model/persona"
)

var languageDirectives = map[chat.Language]string{
	chat.LanguageEnglish: "Respond in English only.",
	chat.LanguageUrdu:    "Respond only in Urdu, written in Urdu (Nastaliq/Arabic) script. Keep statute and program names in English in brackets where that helps the reader.",
	chat.LanguageBoth:    "Respond in both English and Urdu: give the complete answer in English first, then the same answer in Urdu script under a separate \"اردو\" heading.",
}

var responseRules = []string{
	"Structure the answer with short headings (###) and bullet points; use **bold** for key terms.",
	"Cite authoritative sources such as statutes, courts, government bodies or official university pages when they are relevant.",
	"If you are uncertain, or the question is outside your scope, say so plainly instead of guessing and recommend consulting a qualified professional.",
	"Do not add your own disclaimer; one is appended to every answer automatically.",
}

// Builder produces prompts and welcome messages for one assistant persona.
// It holds no mutable state and is safe for concurrent use.
type Builder struct {
	persona         persona.Persona
	defaultPreamble string
}

// Option customises a Builder.
type Option func(*Builder)

// WithDefaultPreamble overrides the persona preamble used when no category applies.
func WithDefaultPreamble(preamble string) Option {
	return func(b *Builder) {
		if p := strings.TrimSpace(preamble); p != "" {
			b.defaultPreamble = p
		}
	}
}

// NewBuilder creates a Builder for the given persona.
func NewBuilder(p persona.Persona, opts ...Option) *Builder {
	b := &Builder{persona: p, defaultPreamble: p.DefaultPreamble}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Persona returns the assistant variant the builder speaks for.
func (b *Builder) Persona() persona.Persona {
	return b.persona
}

// Disclaimer returns the suffix appended to every bot response.
func (b *Builder) Disclaimer() string {
	return b.persona.Disclaimer
}

// Build assembles the prompt. userText must already be validated as non-empty.
func (b *Builder) Build(userText string, c *category.Category, lang chat.Language) string {
	var sb strings.Builder
	sb.WriteString(b.preamble(c))
	sb.WriteString("\n\nLanguage: ")
	sb.WriteString(directive(lang))
	sb.WriteString("\n\nUser question:\n")
	sb.WriteString(userText)
	sb.WriteString("\n\nInstructions:")
	for _, rule := range responseRules {
		sb.WriteString("\n- ")
		sb.WriteString(rule)
	}
	return sb.String()
}

// Welcome returns the seeded first bot message for a session.
func (b *Builder) Welcome(c *category.Category, lang chat.Language) string {
	english, urdu := b.persona.Welcome.English, b.persona.Welcome.Urdu
	if c != nil && strings.TrimSpace(c.Title) != "" {
		english = fmt.Sprintf(b.persona.CategoryWelcome.English, c.Title)
		urdu = fmt.Sprintf(b.persona.CategoryWelcome.Urdu, c.Title)
	}

	switch lang {
	case chat.LanguageUrdu:
		return urdu
	case chat.LanguageBoth:
		return english + "\n\n" + urdu
	default:
		return english
	}
}

func (b *Builder) preamble(c *category.Category) string {
	if c != nil && c.Known() && strings.TrimSpace(c.Preamble) != "" {
		return c.Preamble
	}
	return b.defaultPreamble
}

func directive(lang chat.Language) string {
	if d, ok := languageDirectives[lang]; ok {
		return d
	}
	return languageDirectives[chat.LanguageEnglish]
}
