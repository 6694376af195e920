package category

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advocaid/assistant/backend/internal/model/persona"
)

func TestResolveMatchesTitleAndID(t *testing.T) {
	store := NewMemoryStore(Seed())

	byTitle, ok := store.Resolve("family law")
	require.True(t, ok)
	assert.Equal(t, "family-law", byTitle.ID)

	byID, ok := store.Resolve("Technology")
	require.True(t, ok)
	assert.Equal(t, "Technology & IT", byID.Title)

	_, ok = store.Resolve("  ")
	assert.False(t, ok)
	_, ok = store.Resolve("Maritime Law")
	assert.False(t, ok)
}

func TestListDomainFilters(t *testing.T) {
	store := NewMemoryStore(Seed())

	legal := store.ListDomain(persona.DomainLegal)
	require.NotEmpty(t, legal)
	for _, c := range legal {
		assert.Equal(t, persona.DomainLegal, c.Domain)
	}
	assert.Len(t, store.ListDomain(""), len(Seed()))
}

func TestSeedCategoriesAreComplete(t *testing.T) {
	ids := map[string]bool{}
	for _, c := range Seed() {
		assert.NotEmpty(t, c.Preamble, c.ID)
		assert.NotEmpty(t, c.Keywords, c.ID)
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := `default: "You are a careful legal assistant."
categories:
  - id: tax-law
    title: Tax Law
    preamble: "You specialize in tax law."
    keywords: [tax, fbr]
  - id: tech
    title: Technology
    domain: career
    preamble: "You counsel IT students."
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	catalog, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "You are a careful legal assistant.", catalog.Default)
	require.Len(t, catalog.Categories, 2)
	assert.Equal(t, persona.DomainLegal, catalog.Categories[0].Domain)
	assert.Equal(t, persona.DomainCareer, catalog.Categories[1].Domain)
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	cases := map[string]string{
		"empty":     `categories: []`,
		"no title":  "categories:\n  - id: x\n    preamble: p\n",
		"duplicate": "categories:\n  - {id: a, title: A, preamble: p}\n  - {id: a, title: B, preamble: p}\n",
		"domain":    "categories:\n  - {id: a, title: A, preamble: p, domain: medical}\n",
		"preamble":  "categories:\n  - {id: a, title: A}\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}
