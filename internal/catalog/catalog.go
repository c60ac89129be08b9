// Package catalog holds the fixed set of recommendable assessments.
//
// The catalog is small enough to be enumerated in full inside every prompt,
// so there is no retrieval or indexing stage. A Static store is immutable
// after construction and safe for concurrent use.
package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrEmptyCatalog is returned when a catalog has no items.
var ErrEmptyCatalog = errors.New("catalog has no items")

// Item is one recommendable assessment.
type Item struct {
	Name            string `json:"name" yaml:"name"`
	URL             string `json:"url" yaml:"url"`
	RemoteTesting   bool   `json:"remote_testing" yaml:"remote_testing"`
	AdaptiveSupport bool   `json:"adaptive_irt_support" yaml:"adaptive_irt_support"`
	Duration        string `json:"duration" yaml:"duration"` // Human readable, not parsed
	Category        string `json:"test_type" yaml:"test_type"`
}

// Store provides read-only access to the catalog.
type Store interface {
	// Items returns the catalog in canonical order.
	// Callers own the returned slice.
	Items() []Item
}

// Static is an in-memory Store built from a fixed item list.
type Static struct {
	items []Item
}

// New validates items and returns a Static store holding a private copy.
func New(items []Item) (*Static, error) {
	if err := Validate(items); err != nil {
		return nil, err
	}
	cp := make([]Item, len(items))
	copy(cp, items)
	return &Static{items: cp}, nil
}

// Items returns a copy of the catalog in canonical order.
func (s *Static) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items.
func (s *Static) Len() int {
	return len(s.items)
}

// First returns the first item in canonical order.
func (s *Static) First() (Item, bool) {
	if len(s.items) == 0 {
		return Item{}, false
	}
	return s.items[0], true
}

// Validate checks that items is non-empty, names are non-empty and unique,
// and every URL is an absolute http(s) URI.
func Validate(items []Item) error {
	if len(items) == 0 {
		return ErrEmptyCatalog
	}

	seen := make(map[string]int, len(items))
	for i, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("catalog item %d: name is required", i)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("catalog item %d: duplicate name %q (first at %d)", i, name, prev)
		}
		seen[name] = i

		if err := CheckURL(item.URL); err != nil {
			return fmt.Errorf("catalog item %q: %w", name, err)
		}
	}
	return nil
}

// CheckURL reports whether raw is an absolute http(s) URL with a host.
func CheckURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url must be absolute http(s), got %q", raw)
	}
	return nil
}

// Verify interface
var _ Store = (*Static)(nil)
