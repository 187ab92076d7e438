// Package dispatch drives one provider through search, selection and processing.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/samber/mo"
	"github.com/streamscout/streamscout/log"
	"github.com/streamscout/streamscout/media"
	"github.com/streamscout/streamscout/provider"
)

// ErrBadSelector is returned when a direct selector cannot be resolved and
// there is no query to fall back to.
var ErrBadSelector = errors.New("invalid direct selector")

// ErrPanic marks a Failed outcome whose provider panicked. The process state
// can no longer be trusted after one.
var ErrPanic = errors.New("provider panicked")

// Status classifies how a dispatch ended.
type Status int

const (
	Dispatched Status = iota
	DatabaseReturned
	NoResults
	UserCancelled
	Failed
)

func (s Status) String() string {
	switch s {
	case Dispatched:
		return "dispatched"
	case DatabaseReturned:
		return "database returned"
	case NoResults:
		return "no results"
	case UserCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Outcome is the result of a dispatch.
type Outcome struct {
	Status  Status
	Results media.ResultSet
	Item    *media.Item
	Err     error
}

// Request describes what the caller already knows.
type Request struct {
	Query        mo.Option[string]
	DatabaseOnly bool
	Direct       mo.Option[media.Selector]
	Overrides    mo.Option[media.Overrides]
}

// Chooser is the part of a choice surface dispatch needs.
type Chooser interface {
	AskQuery(ctx context.Context, provider string) (string, bool, error)
	ChooseResult(ctx context.Context, table media.Table) (int, bool, error)
	Notify(ctx context.Context, message string)
}

// Dispatcher runs requests against provider descriptors.
type Dispatcher struct {
	Chooser Chooser

	// MaxRetries bounds how many empty searches are re-prompted. Zero
	// leaves it to the operator, who ends the loop by cancelling.
	MaxRetries int

	// OnSearch is called with every query that produced results.
	OnSearch func(query string)

	// OnDispatch is called after an item was processed.
	OnDispatch func(d *provider.Descriptor, item *media.Item, overrides media.Overrides)
}

// Run dispatches req to d. The descriptor is held for the whole run.
func (x *Dispatcher) Run(ctx context.Context, d *provider.Descriptor, req Request) (out Outcome) {
	d.Lock()
	defer d.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.WithField("provider", d.Alias).Errorf("panic: %v\n%s", r, debug.Stack())
			out = Outcome{Status: Failed, Err: fmt.Errorf("%s: %w: %v", d.Alias, ErrPanic, r)}
		}
	}()

	entry := log.WithField("provider", d.Alias)

	extras, err := prepare(ctx, d.Provider)
	if err != nil {
		return failed(fmt.Errorf("%s: prepare: %w", d.Alias, err))
	}

	query := strings.TrimSpace(req.Query.OrEmpty())
	overrides := req.Overrides.OrEmpty()

	if selector, ok := req.Direct.Get(); ok {
		entry.Debugf("direct selection %s", selector)

		out, fallback := x.direct(ctx, d, selector, query, overrides, extras)
		if !fallback {
			return out
		}

		entry.Warnf("direct selection %s failed, falling back to interactive search", selector)
	}

	for attempt := 1; ; attempt++ {
		if query == "" {
			q, ok, err := x.Chooser.AskQuery(ctx, d.DisplayName)
			if err != nil {
				return failed(err)
			}
			if !ok {
				return Outcome{Status: UserCancelled}
			}
			query = strings.TrimSpace(q)
			if query == "" {
				continue
			}
		}

		count, err := d.Provider.Search(ctx, query, extras)
		if err != nil {
			return failed(fmt.Errorf("%s: search %q: %w", d.Alias, query, err))
		}
		results := d.Provider.Results()
		entry.Infof("search %q returned %d results", query, count)

		if count > 0 && x.OnSearch != nil {
			x.OnSearch(query)
		}

		if req.DatabaseOnly {
			return Outcome{Status: DatabaseReturned, Results: results}
		}

		if count > 0 {
			index, ok, err := x.Chooser.ChooseResult(ctx, results.Table())
			if err != nil {
				return failed(err)
			}
			if !ok {
				return Outcome{Status: UserCancelled, Results: results}
			}

			item, ok := results.At(index)
			if !ok {
				return failed(fmt.Errorf("%w: chosen index %d is out of range", ErrBadSelector, index))
			}

			return x.process(ctx, d, item, overrides, extras, results)
		}

		x.Chooser.Notify(ctx, fmt.Sprintf("Nothing matching was found for: %s", query))
		query = ""

		if x.MaxRetries > 0 && attempt >= x.MaxRetries {
			return Outcome{Status: NoResults, Results: results}
		}
	}
}

// direct handles a request with a direct selector. It reports whether the
// caller should continue with the interactive loop.
func (x *Dispatcher) direct(ctx context.Context, d *provider.Descriptor, selector media.Selector, query string, overrides media.Overrides, extras provider.Extras) (Outcome, bool) {
	if item, ok := selector.Item(); ok {
		return x.process(ctx, d, item, overrides, extras, media.ResultSet{}), false
	}

	var (
		item    *media.Item
		results media.ResultSet
		err     error
	)

	if _, err = d.Provider.Search(ctx, query, extras); err == nil {
		results = d.Provider.Results()
		item, err = selector.Resolve(results)
	}

	if err == nil {
		return x.process(ctx, d, item, overrides, extras, results), false
	}

	if query == "" {
		return failed(fmt.Errorf("%w: %s", ErrBadSelector, err)), false
	}

	x.Chooser.Notify(ctx, fmt.Sprintf("Could not select %s: %s", selector, err))
	return Outcome{}, true
}

func (x *Dispatcher) process(ctx context.Context, d *provider.Descriptor, item *media.Item, overrides media.Overrides, extras provider.Extras, results media.ResultSet) Outcome {
	if err := d.Provider.ProcessSelection(ctx, item, overrides, extras); err != nil {
		return Outcome{Status: Failed, Results: results, Item: item, Err: fmt.Errorf("%s: process %q: %w", d.Alias, item.Label(), err)}
	}

	if x.OnDispatch != nil {
		x.OnDispatch(d, item, overrides)
	}

	return Outcome{Status: Dispatched, Results: results, Item: item}
}

func prepare(ctx context.Context, p provider.Provider) (provider.Extras, error) {
	if preparer, ok := p.(provider.Preparer); ok {
		return preparer.Prepare(ctx)
	}
	return provider.Extras{}, nil
}

func failed(err error) Outcome {
	return Outcome{Status: Failed, Err: err}
}
