package provider

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/samber/lo"
	"github.com/streamscout/streamscout/log"
	"github.com/streamscout/streamscout/util"
	"golang.org/x/exp/slices"
)

// Registry defaults for metadata a module leaves out.
const (
	DefaultSortIndex = 99
	DefaultPriority  = 0
	AliasSuffix      = "_search"
)

// Descriptor is a registered provider. Descriptors are built once and are
// read-only afterwards; the embedded lock serializes dispatches to the
// provider so that search, results and processing stay consistent.
type Descriptor struct {
	Alias       string
	Name        string
	DisplayName string
	Category    Category
	SortIndex   int
	Priority    int
	Provider    Provider

	mu sync.Mutex
}

// Lock acquires exclusive use of the provider.
func (d *Descriptor) Lock() { d.mu.Lock() }

// Unlock releases the provider.
func (d *Descriptor) Unlock() { d.mu.Unlock() }

func (d *Descriptor) String() string {
	return d.Alias
}

// Registry is the ordered, alias-unique set of usable providers.
type Registry struct {
	descriptors []*Descriptor
	byAlias     map[string]*Descriptor
}

// Len is the number of registered providers.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

// Descriptors returns the providers in presentation order.
func (r *Registry) Descriptors() []*Descriptor {
	return slices.Clone(r.descriptors)
}

// At returns the provider at position i of the presentation order.
func (r *Registry) At(i int) (*Descriptor, bool) {
	if i < 0 || i >= len(r.descriptors) {
		return nil, false
	}
	return r.descriptors[i], true
}

// AtString resolves a textual position, as given on the command line.
func (r *Registry) AtString(s string) (*Descriptor, bool) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return nil, false
	}
	return r.At(i)
}

// Lookup finds a provider by alias.
func (r *Registry) Lookup(alias string) (*Descriptor, bool) {
	d, ok := r.byAlias[alias]
	return d, ok
}

// Aliases returns every alias in lexical order.
func (r *Registry) Aliases() []string {
	aliases := lo.Keys(r.byAlias)
	sort.Strings(aliases)
	return aliases
}

type loaded struct {
	candidate Candidate
	provider  Provider
	meta      Metadata
}

// load instantiates a candidate and reads its metadata. Panics are
// reported as errors.
func load(c Candidate) (p Provider, meta Metadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, meta, err = nil, Metadata{}, fmt.Errorf("load %s: panic: %v", c.Name, r)
		}
	}()

	p, err = c.Load()
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("load %s: %w", c.Name, err)
	}

	if d, ok := p.(Describer); ok {
		meta = d.Metadata()
	}

	return p, meta, nil
}

func validate(m loaded) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", m.candidate.Name, r)
		}
	}()

	if v, ok := m.provider.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", m.candidate.Name, err)
		}
	}

	return nil
}

// Build loads the candidates and assembles a registry from the usable ones.
// Candidates named in exclude are skipped before loading. Every module that
// fails to load, lacks a search entry point or repeats an alias is left out
// and reported in the returned errors.
func Build(candidates []Candidate, exclude []string) (*Registry, []error) {
	var (
		errs     []error
		excluded = lo.SliceToMap(exclude, func(name string) (string, struct{}) { return name, struct{}{} })
		modules  = make([]loaded, 0, len(candidates))
	)

	for _, c := range candidates {
		if _, skip := excluded[c.Name]; skip {
			log.WithField("provider", c.Name).Debug("skipping excluded provider")
			continue
		}

		p, meta, err := load(c)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		modules = append(modules, loaded{candidate: c, provider: p, meta: meta})
	}

	slices.SortStableFunc(modules, func(a, b loaded) int {
		if ai, bi := a.meta.Index.OrElse(DefaultSortIndex), b.meta.Index.OrElse(DefaultSortIndex); ai != bi {
			return ai - bi
		}
		return a.meta.Priority.OrElse(DefaultPriority) - b.meta.Priority.OrElse(DefaultPriority)
	})

	registry := &Registry{byAlias: make(map[string]*Descriptor)}

	for _, m := range modules {
		if err := validate(m); err != nil {
			errs = append(errs, err)
			continue
		}

		alias := m.candidate.Name + AliasSuffix
		if _, taken := registry.byAlias[alias]; taken {
			errs = append(errs, fmt.Errorf("%w: %s (%s)", ErrDuplicateAlias, alias, m.candidate.Origin))
			continue
		}

		d := &Descriptor{
			Alias:       alias,
			Name:        m.candidate.Name,
			DisplayName: m.meta.DisplayName.OrElse(util.Capitalize(m.candidate.Name)),
			Category:    m.meta.Category.OrElse(Other),
			SortIndex:   m.meta.Index.OrElse(DefaultSortIndex),
			Priority:    m.meta.Priority.OrElse(DefaultPriority),
			Provider:    m.provider,
		}

		registry.descriptors = append(registry.descriptors, d)
		registry.byAlias[alias] = d
	}

	return registry, errs
}

// Load discovers built-ins and the candidates of every finder, then builds
// the registry. Problems are logged; the result may be empty.
func Load(exclude []string, finders ...Finder) *Registry {
	candidates, err := Discover(finders...)
	if err != nil {
		log.WithField("stage", "discover").Warn(err)
	}

	registry, errs := Build(candidates, exclude)
	for _, e := range errs {
		entry := log.WithField("stage", "build")
		if errors.Is(e, ErrNoSearch) {
			entry.Warn(e)
			continue
		}
		entry.Error(e)
	}

	log.Infof("registered %s", util.Quantify(registry.Len(), "provider", "providers"))
	return registry
}
