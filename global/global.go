// Package global searches every provider at once and dispatches the chosen
// result to the provider that found it.
package global

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/streamscout/streamscout/dispatch"
	"github.com/streamscout/streamscout/log"
	"github.com/streamscout/streamscout/media"
	"github.com/streamscout/streamscout/provider"
	"golang.org/x/exp/slices"
)

// Prompt is the provider name shown when asking for the query.
const Prompt = "all providers"

// Hit is a result tagged with the provider that returned it.
type Hit struct {
	Descriptor *provider.Descriptor
	Item       *media.Item
	Distance   int
}

// Searcher runs cross-provider searches.
type Searcher struct {
	Dispatcher *dispatch.Dispatcher
}

// Search queries every descriptor concurrently in database-only mode and
// ranks the merged results by edit distance to query. Providers that fail
// are reported and left out.
func (s *Searcher) Search(ctx context.Context, descriptors []*provider.Descriptor, query string) ([]Hit, []error) {
	var (
		wg       sync.WaitGroup
		outcomes = make([]dispatch.Outcome, len(descriptors))
	)

	for i, d := range descriptors {
		wg.Add(1)
		go func(i int, d *provider.Descriptor) {
			defer wg.Done()
			outcomes[i] = s.Dispatcher.Run(ctx, d, dispatch.Request{
				Query:        mo.Some(query),
				DatabaseOnly: true,
			})
		}(i, d)
	}
	wg.Wait()

	var (
		hits []Hit
		errs []error
	)

	needle := strings.ToLower(query)
	for i, out := range outcomes {
		d := descriptors[i]

		if out.Status != dispatch.DatabaseReturned {
			errs = append(errs, fmt.Errorf("%s: %s: %w", d.Alias, out.Status, out.Err))
			continue
		}

		for _, item := range out.Results.Items() {
			hits = append(hits, Hit{
				Descriptor: d,
				Item:       item,
				Distance:   levenshtein.Distance(needle, strings.ToLower(item.Label())),
			})
		}
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		return a.Distance - b.Distance
	})

	return hits, errs
}

// Table projects hits with the provider of each result.
func Table(hits []Hit) media.Table {
	return media.Table{
		Columns: []string{"#", "Provider", "Type", "Title"},
		Rows: lo.Map(hits, func(h Hit, i int) []string {
			return []string{strconv.Itoa(i), h.Descriptor.DisplayName, h.Item.Kind.String(), h.Item.Label()}
		}),
	}
}

// Run asks for a query when none is given, searches every descriptor, lets
// the operator choose among the merged results and dispatches the choice.
func (s *Searcher) Run(ctx context.Context, descriptors []*provider.Descriptor, query mo.Option[string]) dispatch.Outcome {
	chooser := s.Dispatcher.Chooser

	q := strings.TrimSpace(query.OrEmpty())
	for q == "" {
		answer, ok, err := chooser.AskQuery(ctx, Prompt)
		if err != nil {
			return dispatch.Outcome{Status: dispatch.Failed, Err: err}
		}
		if !ok {
			return dispatch.Outcome{Status: dispatch.UserCancelled}
		}
		q = strings.TrimSpace(answer)
	}

	hits, errs := s.Search(ctx, descriptors, q)
	for _, err := range errs {
		log.Warn(err)
	}

	if len(hits) == 0 {
		chooser.Notify(ctx, fmt.Sprintf("Nothing matching was found for: %s", q))
		return dispatch.Outcome{Status: dispatch.NoResults}
	}

	index, ok, err := chooser.ChooseResult(ctx, Table(hits))
	if err != nil {
		return dispatch.Outcome{Status: dispatch.Failed, Err: err}
	}
	if !ok {
		return dispatch.Outcome{Status: dispatch.UserCancelled}
	}
	if index < 0 || index >= len(hits) {
		return dispatch.Outcome{Status: dispatch.Failed, Err: fmt.Errorf("%w: chosen index %d is out of range", dispatch.ErrBadSelector, index)}
	}

	hit := hits[index]
	log.WithField("provider", hit.Descriptor.Alias).Infof("global search dispatching %q", hit.Item.Label())

	return s.Dispatcher.Run(ctx, hit.Descriptor, dispatch.Request{
		Query:  mo.Some(q),
		Direct: mo.Some(media.ItemSelector(hit.Item)),
	})
}
