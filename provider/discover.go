package provider

import (
	"errors"
	"fmt"
	"sync"
)

// Candidate is a module that may become a registered provider.
type Candidate struct {
	Name   string
	Origin string
	Load   func() (Provider, error)
}

// Finder enumerates candidates from one origin, such as a directory of scripts.
type Finder func() ([]Candidate, error)

var (
	builtinsMu sync.Mutex
	builtins   []Candidate
)

// Register adds a compiled-in provider. It is meant to be called from init
// and panics when the name is already taken.
func Register(name string, factory func() (Provider, error)) {
	builtinsMu.Lock()
	defer builtinsMu.Unlock()

	for _, b := range builtins {
		if b.Name == name {
			panic("provider: Register called twice for " + name)
		}
	}

	builtins = append(builtins, Candidate{Name: name, Origin: "builtin", Load: factory})
}

// Builtins returns the compiled-in candidates in registration order.
func Builtins() []Candidate {
	builtinsMu.Lock()
	defer builtinsMu.Unlock()

	return append([]Candidate(nil), builtins...)
}

// Discover returns the built-ins followed by the candidates of every finder.
// A failing finder contributes an error but does not hide the others.
func Discover(finders ...Finder) ([]Candidate, error) {
	var errs []error
	candidates := Builtins()

	for _, find := range finders {
		found, err := find()
		if err != nil {
			errs = append(errs, fmt.Errorf("discover: %w", err))
			continue
		}
		candidates = append(candidates, found...)
	}

	return candidates, errors.Join(errs...)
}
