package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/streamscout/streamscout/dispatch"
	"github.com/streamscout/streamscout/media"
	"github.com/streamscout/streamscout/provider"
)

// ErrConfiguration is returned for invocations that cannot run at all.
var ErrConfiguration = errors.New("configuration error")

// Invocation is a parsed command line.
type Invocation struct {
	// Scripted download; all five or none.
	DownloadSeries string
	Site           string
	Index          string
	Season         string
	Episodes       string

	Global    bool
	Search    mo.Option[string]
	Providers []string
	JSON      bool
}

func (inv Invocation) scripted() []string {
	return []string{inv.DownloadSeries, inv.Site, inv.Index, inv.Season, inv.Episodes}
}

// Path is the route an invocation takes.
type Path int

const (
	Scripted Path = iota
	Global
	Named
	Interactive
)

func (p Path) String() string {
	switch p {
	case Scripted:
		return "scripted"
	case Global:
		return "global"
	case Named:
		return "named"
	default:
		return "interactive"
	}
}

// Selection is the outcome of routing an invocation.
type Selection struct {
	Path       Path
	Descriptor *provider.Descriptor
	Request    dispatch.Request
}

// Select picks the path for inv. The first matching path wins: scripted,
// global, named provider, interactive.
func Select(registry *provider.Registry, inv Invocation) (Selection, error) {
	present := lo.CountBy(inv.scripted(), func(s string) bool { return strings.TrimSpace(s) != "" })

	switch {
	case present == len(inv.scripted()):
		return selectScripted(registry, inv)
	case present > 0:
		return Selection{}, fmt.Errorf("%w: scripted downloads need --download-series, --site, --index, --dl-season and --dl-episodes together", ErrConfiguration)
	}

	if inv.Global {
		return Selection{Path: Global}, nil
	}

	request := dispatch.Request{Query: inv.Search, DatabaseOnly: inv.JSON}

	switch providers := lo.Uniq(inv.Providers); len(providers) {
	case 0:
		return Selection{Path: Interactive, Request: request}, nil
	case 1:
		d, ok := registry.Lookup(providers[0])
		if !ok {
			return Selection{}, fmt.Errorf("%w: unknown provider %s", ErrConfiguration, providers[0])
		}
		return Selection{Path: Named, Descriptor: d, Request: request}, nil
	default:
		return Selection{}, fmt.Errorf("%w: only one provider can be selected, got %s", ErrConfiguration, strings.Join(providers, ", "))
	}
}

func selectScripted(registry *provider.Registry, inv Invocation) (Selection, error) {
	d, ok := registry.AtString(strings.TrimSpace(inv.Site))
	if !ok {
		return Selection{}, fmt.Errorf("%w: invalid site index %q, %d providers available", ErrConfiguration, inv.Site, registry.Len())
	}

	return Selection{
		Path:       Scripted,
		Descriptor: d,
		Request: dispatch.Request{
			Query:     mo.Some(inv.DownloadSeries),
			Direct:    mo.Some(media.IndexSelector(inv.Index)),
			Overrides: mo.Some(media.NewOverrides(inv.Season, inv.Episodes)),
		},
	}, nil
}
