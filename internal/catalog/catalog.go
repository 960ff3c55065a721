// Package catalog holds the fixed set of service categories a project title can
// be classified into. A Catalog is built once at startup and never mutated, so
// it can be shared by concurrent requests without locking.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// SentinelName is reserved for the "no category applies" label and may not be
// used by a real category.
const SentinelName = "NO_CLASIFICADO"

// ErrCatalogLoad is matched by every error returned from Load and New.
var ErrCatalogLoad = errors.New("catalog load failed")

// LoadError describes why a catalog source could not be turned into a Catalog.
type LoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load catalog from %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("load catalog from %s: %s", e.Source, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrCatalogLoad) match any LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrCatalogLoad }

// Category is one classification label.
type Category struct {
	ID         int    `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Definition string `json:"definition" yaml:"definition"`
}

// Catalog is the immutable, ordered set of categories.
type Catalog struct {
	source     string
	categories []Category
	byName     map[string]int
	byID       map[int]int
}

// New validates categories and returns a Catalog preserving their order.
// source only labels error messages.
func New(source string, categories []Category) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, &LoadError{Source: source, Reason: "catalog is empty"}
	}

	c := &Catalog{
		source:     source,
		categories: make([]Category, 0, len(categories)),
		byName:     make(map[string]int, len(categories)),
		byID:       make(map[int]int, len(categories)),
	}

	for i, cat := range categories {
		cat.Name = strings.TrimSpace(cat.Name)
		switch {
		case cat.ID <= 0:
			return nil, &LoadError{Source: source, Reason: fmt.Sprintf("entry %d: missing or non-positive id", i+1)}
		case cat.Name == "":
			return nil, &LoadError{Source: source, Reason: fmt.Sprintf("entry %d: missing name", i+1)}
		case cat.Name == SentinelName:
			return nil, &LoadError{Source: source, Reason: fmt.Sprintf("entry %d: name %q is reserved", i+1, SentinelName)}
		case strings.TrimSpace(cat.Definition) == "":
			return nil, &LoadError{Source: source, Reason: fmt.Sprintf("entry %d (%s): missing definition", i+1, cat.Name)}
		}
		if _, dup := c.byID[cat.ID]; dup {
			return nil, &LoadError{Source: source, Reason: fmt.Sprintf("duplicate id %d", cat.ID)}
		}
		if _, dup := c.byName[cat.Name]; dup {
			return nil, &LoadError{Source: source, Reason: fmt.Sprintf("duplicate name %q", cat.Name)}
		}

		c.byID[cat.ID] = len(c.categories)
		c.byName[cat.Name] = len(c.categories)
		c.categories = append(c.categories, cat)
	}

	return c, nil
}

// Source names where the catalog was loaded from.
func (c *Catalog) Source() string { return c.source }

// All returns a copy of the categories in load order.
func (c *Catalog) All() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.categories) }

// Lookup finds a category by its exact name.
func (c *Catalog) Lookup(name string) (Category, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// ByID finds a category by id.
func (c *Catalog) ByID(id int) (Category, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// Contains reports whether name and id refer to the same known category.
func (c *Catalog) Contains(name string, id int) bool {
	cat, ok := c.Lookup(name)
	return ok && cat.ID == id
}
