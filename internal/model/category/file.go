package category

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/advocaid/assistant/backend/internal/model/persona"
)

// Catalog is the externally supplied category configuration.
//
//	default: "You are a legal assistant..."   # preamble for sessions without a category
//	categories:
//	  - id: family-law
//	    title: Family Law
//	    domain: legal
//	    preamble: "..."
//	    keywords: [divorce, custody]
type Catalog struct {
	Default    string     `yaml:"default"`
	Categories []Category `yaml:"categories"`
}

// LoadFile reads a YAML catalog from disk and validates it.
func LoadFile(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read category file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML catalog.
func Parse(raw []byte) (Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("decode category file: %w", err)
	}

	seen := make(map[string]struct{}, len(catalog.Categories))
	for i := range catalog.Categories {
		c := &catalog.Categories[i]
		c.ID = strings.TrimSpace(c.ID)
		c.Title = strings.TrimSpace(c.Title)
		if c.ID == "" || c.Title == "" {
			return Catalog{}, fmt.Errorf("category #%d: id and title are required", i+1)
		}
		if _, dup := seen[c.ID]; dup {
			return Catalog{}, fmt.Errorf("category %q: duplicate id", c.ID)
		}
		seen[c.ID] = struct{}{}

		switch c.Domain {
		case "":
			c.Domain = persona.DomainLegal
		case persona.DomainLegal, persona.DomainCareer:
		default:
			return Catalog{}, fmt.Errorf("category %q: unknown domain %q", c.ID, c.Domain)
		}
		if strings.TrimSpace(c.Preamble) == "" {
			return Catalog{}, fmt.Errorf("category %q: preamble is required", c.ID)
		}
	}

	if len(catalog.Categories) == 0 {
		return Catalog{}, errors.New("category file defines no categories")
	}
	catalog.Default = strings.TrimSpace(catalog.Default)
	return catalog, nil
}
