// Package locator holds the catalog of element selectors, keyed by logical
// names such as "profile.name". The catalog is loaded once and never mutated.
package locator

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// By is a selection mechanism.
type By string

const (
	ByCSS   By = "css"
	ByClass By = "class"
	ByID    By = "id"
	ByTag   By = "tag"
)

// ErrInvalidStrategy is returned for entries with an unknown mechanism or an
// empty value.
var ErrInvalidStrategy = errors.New("invalid selection strategy")

// Strategy describes how to select an element.
type Strategy struct {
	By    By     `yaml:"by"`
	Value string `yaml:"value"`
}

// IsZero reports whether s selects nothing.
func (s Strategy) IsZero() bool { return s.Value == "" }

// CSS renders the strategy as a CSS selector, the form both the browser and
// the snapshot accessor query with.
func (s Strategy) CSS() string {
	switch s.By {
	case ByClass:
		return "." + strings.Join(strings.Fields(s.Value), ".")
	case ByID:
		return fmt.Sprintf("[id=%q]", s.Value)
	default:
		return s.Value
	}
}

func (s Strategy) String() string { return string(s.By) + "=" + s.Value }

func (s Strategy) validate() error {
	switch s.By {
	case ByCSS, ByClass, ByID, ByTag:
	default:
		return fmt.Errorf("%w: unknown mechanism %q", ErrInvalidStrategy, s.By)
	}
	if strings.TrimSpace(s.Value) == "" {
		return fmt.Errorf("%w: empty value", ErrInvalidStrategy)
	}
	return nil
}

// Catalog maps logical names to strategies.
type Catalog struct {
	entries map[string]Strategy
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded locator catalog: %v", err))
	}
	return c
}

// Parse reads a catalog document: top-level sections holding name→strategy
// maps. Keys are flattened to "section.name".
func Parse(data []byte) (*Catalog, error) {
	var doc map[string]map[string]Strategy
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing locator catalog: %w", err)
	}
	entries := make(map[string]Strategy)
	for section, names := range doc {
		for name, s := range names {
			key := section + "." + name
			if err := s.validate(); err != nil {
				return nil, fmt.Errorf("locator %s: %w", key, err)
			}
			entries[key] = s
		}
	}
	return &Catalog{entries: entries}, nil
}

// Load returns the embedded catalog with the entries of the file at path
// layered on top. An empty path returns the embedded catalog.
func Load(path string) (*Catalog, error) {
	base := Default()
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading locator file: %w", err)
	}
	override, err := Parse(data)
	if err != nil {
		return nil, err
	}
	merged := make(map[string]Strategy, len(base.entries)+len(override.entries))
	for k, v := range base.entries {
		merged[k] = v
	}
	for k, v := range override.entries {
		merged[k] = v
	}
	return &Catalog{entries: merged}, nil
}

// Lookup returns the strategy registered under key.
func (c *Catalog) Lookup(key string) (Strategy, bool) {
	s, ok := c.entries[key]
	return s, ok
}

// Get returns the strategy registered under key, or the zero Strategy, which
// every accessor treats as matching nothing.
func (c *Catalog) Get(key string) Strategy {
	return c.entries[key]
}

// Keys returns every registered key, sorted.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Require fails when any of keys is missing.
func (c *Catalog) Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if _, ok := c.entries[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("locator catalog is missing %s", strings.Join(missing, ", "))
	}
	return nil
}
