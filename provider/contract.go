// Package provider defines the contract every content source implements and
// the registry that discovers, orders and names them.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/streamscout/streamscout/media"
)

var (
	// ErrNoSearch is reported by modules that do not expose a search entry point.
	ErrNoSearch = errors.New("'search' function not found")

	// ErrUnsupportedKind is returned when a provider has no routine for an item's kind.
	ErrUnsupportedKind = errors.New("unsupported item kind")

	// ErrDuplicateAlias is reported when two modules claim the same name.
	ErrDuplicateAlias = errors.New("duplicate provider alias")
)

// Extras are provider-specific auxiliary inputs, such as a proxy, that are
// handed to Search and ProcessSelection unchanged.
type Extras struct {
	Search  []any
	Process map[string]any
}

// Provider is the unified contract of a content source.
type Provider interface {
	// Search queries the catalog and replaces the current results.
	// The returned count equals Results().Len().
	Search(ctx context.Context, query string, extras Extras) (int, error)

	// Results is a read-only snapshot of the latest search.
	Results() media.ResultSet

	// ProcessSelection hands the item to the downstream routine for its kind.
	ProcessSelection(ctx context.Context, item *media.Item, overrides media.Overrides, extras Extras) error
}

// Preparer is implemented by providers that compute Extras before a dispatch.
type Preparer interface {
	Prepare(ctx context.Context) (Extras, error)
}

// Describer is implemented by providers that carry their own metadata.
type Describer interface {
	Metadata() Metadata
}

// Validator is implemented by modules that can be loaded without being usable.
type Validator interface {
	Validate() error
}

// Handlers are the downstream routines a provider offers per item kind.
// Title handles kinds that are neither films nor series and may be nil.
type Handlers struct {
	Film   func(ctx context.Context, item *media.Item, extras Extras) error
	Series func(ctx context.Context, item *media.Item, overrides media.Overrides, extras Extras) error
	Title  func(ctx context.Context, item *media.Item, extras Extras) error
}

// Process routes item to the handler for its kind.
func (h Handlers) Process(ctx context.Context, item *media.Item, overrides media.Overrides, extras Extras) error {
	if item == nil {
		return errors.New("no item to process")
	}

	switch {
	case item.Kind == media.Series && h.Series != nil:
		return h.Series(ctx, item, overrides, extras)
	case item.Kind == media.Movie && h.Film != nil:
		return h.Film(ctx, item, extras)
	case item.Kind == media.Other && h.Title != nil:
		return h.Title(ctx, item, extras)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, item.Kind)
	}
}

// Store holds the results of the latest search. Providers embed it to
// satisfy Results.
type Store struct {
	mu      sync.RWMutex
	results media.ResultSet
}

// Replace discards the previous results and returns the new count.
func (s *Store) Replace(items []*media.Item, columns ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = media.NewResultSet(items, columns...)
	return s.results.Len()
}

// Results returns the latest results.
func (s *Store) Results() media.ResultSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.results
}
