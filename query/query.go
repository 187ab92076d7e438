// Package query remembers successful searches and suggests them back while typing.
package query

import (
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/streamscout/streamscout/filesystem"
	"github.com/streamscout/streamscout/key"
	"github.com/streamscout/streamscout/where"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var cacher = gache.New[map[string]*record](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var (
	mu          sync.Mutex
	suggestions = make(map[string][]string)
)

func load() map[string]*record {
	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		return make(map[string]*record)
	}
	return cached
}

// Remember records q, or raises its rank by weight when it is already known.
func Remember(q string, weight int) error {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	records := load()
	if r, ok := records[q]; ok {
		r.Rank += weight
	} else {
		records[q] = &record{Rank: weight, Query: q}
	}

	clear(suggestions)
	return cacher.Set(records)
}

// Suggest returns the best ranked earlier query matching q.
func Suggest(q string) mo.Option[string] {
	return mo.TupleToOption(lo.First(SuggestMany(q)))
}

// SuggestMany returns earlier queries fuzzily matching q, highest rank first.
// It returns nothing when suggestions are disabled.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)

	mu.Lock()
	defer mu.Unlock()

	if prev, ok := suggestions[q]; ok {
		return prev
	}

	matched := lo.Filter(lo.Values(load()), func(r *record, _ int) bool {
		return fuzzy.Match(q, r.Query)
	})

	slices.SortStableFunc(matched, func(a, b *record) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return strings.Compare(a.Query, b.Query)
	})

	result := lo.Map(matched, func(r *record, _ int) string { return r.Query })
	suggestions[q] = result
	return result
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
