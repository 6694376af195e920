package category

import (
	"strings"

	"github.com/advocaid/assistant/backend/internal/model/persona"
)

// Store exposes category lookups to the chat service and HTTP handlers.
type Store interface {
	List() []Category
	ListDomain(domain persona.Domain) []Category
	FindByID(id string) (Category, bool)
	// Resolve matches an ID or a human title, ignoring case. URL query values carry the title.
	Resolve(ref string) (Category, bool)
}

// MemoryStore implements Store over an immutable slice.
type MemoryStore struct {
	items []Category
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied categories.
func NewMemoryStore(items []Category) *MemoryStore {
	return &MemoryStore{items: append([]Category(nil), items...)}
}

func (s *MemoryStore) List() []Category {
	return append([]Category(nil), s.items...)
}

func (s *MemoryStore) ListDomain(domain persona.Domain) []Category {
	out := make([]Category, 0, len(s.items))
	for _, item := range s.items {
		if domain == "" || item.Domain == domain {
			out = append(out, item)
		}
	}
	return out
}

func (s *MemoryStore) FindByID(id string) (Category, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Category{}, false
}

func (s *MemoryStore) Resolve(ref string) (Category, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Category{}, false
	}
	for _, item := range s.items {
		if strings.EqualFold(item.ID, ref) || strings.EqualFold(item.Title, ref) {
			return item, true
		}
	}
	return Category{}, false
}
