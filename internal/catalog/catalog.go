// Package catalog provides the static corpus catalog: the read-only
// mapping from CELEX identifiers to regulatory categories, titles, and
// descriptions. The default catalog is embedded; an override file can be
// supplied at startup. The catalog is fixed for the process lifetime.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

//go:embed corpus.toml
var embeddedCorpus []byte

// Entry describes one regulation in the corpus.
type Entry struct {
	// Category is the regulatory category key, e.g. "food_additives".
	Category string `toml:"category"`

	// Title is the short human-readable title.
	Title string `toml:"title"`

	// Description summarises the regulation's scope.
	Description string `toml:"description"`
}

// Catalog is the read-only corpus definition supplied at startup.
type Catalog struct {
	// Documents maps CELEX ID to its catalog entry.
	Documents map[string]Entry `toml:"documents"`

	// Categories maps category keys to display names.
	Categories map[string]string `toml:"categories"`
}

// Load returns the embedded default catalog.
func Load() (*Catalog, error) {
	return parse(embeddedCorpus)
}

// LoadFile reads a catalog from a TOML file, replacing the embedded default.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if c.Documents == nil {
		c.Documents = make(map[string]Entry)
	}
	if c.Categories == nil {
		c.Categories = make(map[string]string)
	}
	return &c, nil
}

// Get returns the entry for a CELEX ID.
func (c *Catalog) Get(celexID string) (Entry, bool) {
	e, ok := c.Documents[celexID]
	return e, ok
}

// Title returns the catalog title for a CELEX ID, or the ID itself when
// the document is not in the catalog.
func (c *Catalog) Title(celexID string) string {
	if e, ok := c.Documents[celexID]; ok && e.Title != "" {
		return e.Title
	}
	return celexID
}

// Category returns the regulatory category for a CELEX ID, or "".
func (c *Catalog) Category(celexID string) string {
	return c.Documents[celexID].Category
}

// IDs returns all CELEX IDs in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Documents))
	for id := range c.Documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ByCategory returns the sorted CELEX IDs tagged with the given category.
func (c *Catalog) ByCategory(category string) []string {
	var ids []string
	for id, e := range c.Documents {
		if e.Category == category {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// CategoryKeys returns all category keys in sorted order.
func (c *Catalog) CategoryKeys() []string {
	keys := make([]string, 0, len(c.Categories))
	for k := range c.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
