package prompt

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advocaid/assistant/backend/internal/model/category"
	"github.com/advocaid/assistant/backend/internal/model/chat"
	"github.com/advocaid/assistant/backend/internal/model/persona"
)

func newTestBuilder(t *testing.T) (*Builder, category.Store) {
	t.Helper()
	p, err := persona.Select(persona.NewMemoryStore(persona.Seed()), "advocaid")
	require.NoError(t, err)
	return NewBuilder(p), category.NewMemoryStore(category.Seed())
}

func hasScript(text string, table *unicode.RangeTable) bool {
	for _, r := range text {
		if unicode.Is(table, r) {
			return true
		}
	}
	return false
}

func TestBuildIsDeterministic(t *testing.T) {
	b, store := newTestBuilder(t)
	family, _ := store.Resolve("Family Law")

	first := b.Build("What are tenant rights?", &family, chat.LanguageBoth)
	second := b.Build("What are tenant rights?", &family, chat.LanguageBoth)
	assert.Equal(t, first, second)
}

func TestBuildUsesCategoryPreamble(t *testing.T) {
	b, store := newTestBuilder(t)
	family, _ := store.Resolve("Family Law")

	out := b.Build("How is custody decided?", &family, chat.LanguageEnglish)
	assert.True(t, strings.HasPrefix(out, family.Preamble))
	assert.Contains(t, out, "How is custody decided?")
	assert.Contains(t, out, languageDirectives[chat.LanguageEnglish])
	for _, rule := range responseRules {
		assert.Contains(t, out, rule)
	}
}

func TestBuildFallsBackToDefaultPreamble(t *testing.T) {
	b, _ := newTestBuilder(t)
	unknown := category.Category{Title: "Maritime Law"}

	assert.True(t, strings.HasPrefix(b.Build("q", nil, chat.LanguageEnglish), b.Persona().DefaultPreamble))
	assert.True(t, strings.HasPrefix(b.Build("q", &unknown, chat.LanguageEnglish), b.Persona().DefaultPreamble))

	custom := NewBuilder(b.Persona(), WithDefaultPreamble("Custom preamble."))
	assert.True(t, strings.HasPrefix(custom.Build("q", nil, chat.LanguageUrdu), "Custom preamble."))
}

func TestBuildLanguageDirectives(t *testing.T) {
	b, _ := newTestBuilder(t)

	assert.Contains(t, b.Build("q", nil, chat.LanguageUrdu), languageDirectives[chat.LanguageUrdu])
	assert.Contains(t, b.Build("q", nil, chat.LanguageBoth), languageDirectives[chat.LanguageBoth])
	assert.Contains(t, b.Build("q", nil, chat.Language("klingon")), languageDirectives[chat.LanguageEnglish])
}

func TestWelcomeBilingualForFamilyLaw(t *testing.T) {
	b, store := newTestBuilder(t)
	family, _ := store.Resolve("Family Law")

	welcome := b.Welcome(&family, chat.LanguageBoth)
	assert.Contains(t, welcome, "Family Law")
	assert.True(t, hasScript(welcome, unicode.Latin))
	assert.True(t, hasScript(welcome, unicode.Arabic))
}

func TestWelcomeSingleLanguage(t *testing.T) {
	b, _ := newTestBuilder(t)

	english := b.Welcome(nil, chat.LanguageEnglish)
	assert.Equal(t, b.Persona().Welcome.English, english)
	assert.False(t, hasScript(english, unicode.Arabic))

	urdu := b.Welcome(nil, chat.LanguageUrdu)
	assert.Equal(t, b.Persona().Welcome.Urdu, urdu)
	assert.True(t, hasScript(urdu, unicode.Arabic))
}

func TestWelcomeFreeFormCategory(t *testing.T) {
	b, _ := newTestBuilder(t)
	label := category.Category{Title: "Maritime Law"}

	assert.Contains(t, b.Welcome(&label, chat.LanguageEnglish), "specialized in Maritime Law")
}
