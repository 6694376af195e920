package persona

import "fmt"

// Store exposes assistant variants to the CLI and HTTP handlers.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Persona
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied personas.
func NewMemoryStore(items []Persona) *MemoryStore {
	return &MemoryStore{items: append([]Persona(nil), items...)}
}

func (s *MemoryStore) List() []Persona {
	return append([]Persona(nil), s.items...)
}

func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Persona{}, false
}

// Select picks the configured variant. An empty id selects the first entry.
func Select(store Store, id string) (Persona, error) {
	if id == "" {
		items := store.List()
		if len(items) == 0 {
			return Persona{}, fmt.Errorf("no assistant personas configured")
		}
		return items[0], nil
	}
	p, ok := store.FindByID(id)
	if !ok {
		return Persona{}, fmt.Errorf("unknown assistant persona %q", id)
	}
	return p, nil
}
