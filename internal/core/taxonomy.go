package core

import (
	"fmt"
	"strings"
)

// Taxonomy is the ordered set of categories emails can be classified into.
// The first entry is the default used when the model returns an unknown
// category. Immutable once constructed.
type Taxonomy struct {
	categories []CategoryDefinition
}

// NewTaxonomy validates the category definitions and builds a taxonomy.
// An empty taxonomy, an empty category name or a duplicate name is a
// construction error, not something deferred to per-email classification.
func NewTaxonomy(categories []CategoryDefinition) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("taxonomy must contain at least one category")
	}

	seen := make(map[string]struct{}, len(categories))
	for i, cat := range categories {
		if strings.TrimSpace(cat.Name) == "" {
			return nil, fmt.Errorf("category %d has an empty name", i)
		}
		key := strings.ToLower(cat.Name)
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("duplicate category name %q", cat.Name)
		}
		seen[key] = struct{}{}
	}

	owned := make([]CategoryDefinition, len(categories))
	copy(owned, categories)

	return &Taxonomy{categories: owned}, nil
}

// Categories returns the category definitions in taxonomy order.
func (t *Taxonomy) Categories() []CategoryDefinition {
	return t.categories
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int {
	return len(t.categories)
}

// Default returns the fallback category, which is the first entry.
func (t *Taxonomy) Default() CategoryDefinition {
	return t.categories[0]
}

// Lookup finds a category by name, case-insensitively.
func (t *Taxonomy) Lookup(name string) (CategoryDefinition, bool) {
	for _, cat := range t.categories {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}
	return CategoryDefinition{}, false
}

// Names returns the exact category names in taxonomy order.
func (t *Taxonomy) Names() []string {
	names := make([]string, len(t.categories))
	for i, cat := range t.categories {
		names[i] = cat.Name
	}
	return names
}
