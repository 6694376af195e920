package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectDefaultsToFirstPersona(t *testing.T) {
	store := NewMemoryStore(Seed())

	p, err := Select(store, "")
	require.NoError(t, err)
	assert.Equal(t, "advocaid", p.ID)

	p, err = Select(store, "gcuf-career")
	require.NoError(t, err)
	assert.Equal(t, DomainCareer, p.Domain)

	_, err = Select(store, "missing")
	assert.Error(t, err)

	_, err = Select(NewMemoryStore(nil), "")
	assert.Error(t, err)
}

func TestSeedPersonasHaveGreetings(t *testing.T) {
	for _, p := range Seed() {
		assert.NotEmpty(t, p.Welcome.English, p.ID)
		assert.NotEmpty(t, p.Welcome.Urdu, p.ID)
		assert.Equal(t, 1, strings.Count(p.CategoryWelcome.English, "%s"), p.ID)
		assert.Equal(t, 1, strings.Count(p.CategoryWelcome.Urdu, "%s"), p.ID)
		assert.NotEmpty(t, p.Disclaimer, p.ID)
		assert.NotEmpty(t, p.CannedResponses, p.ID)
	}
}
