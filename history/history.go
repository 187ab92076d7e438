// Package history keeps a log of the selections that were dispatched to providers.
package history

import (
	"sync"

	"github.com/metafates/gache"
	"github.com/streamscout/streamscout/filesystem"
	"github.com/streamscout/streamscout/media"
	"github.com/streamscout/streamscout/where"
)

// Limit is the number of records kept, oldest dropped first.
const Limit = 100

var (
	mu     sync.Mutex
	cacher = gache.New[[]*Record](
		&gache.Options{
			Path:       where.History(),
			FileSystem: &filesystem.GacheFs{},
		},
	)
)

// Get returns every record, most recent first.
func Get() ([]*Record, error) {
	mu.Lock()
	defer mu.Unlock()
	return get()
}

func get() ([]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return []*Record{}, nil
	}
	return cached, nil
}

// Save records that item was dispatched to provider.
func Save(provider string, item *media.Item, overrides media.Overrides) error {
	mu.Lock()
	defer mu.Unlock()

	records, err := get()
	if err != nil {
		return err
	}

	records = append([]*Record{newRecord(provider, item, overrides)}, records...)
	if len(records) > Limit {
		records = records[:Limit]
	}

	return cacher.Set(records)
}

// Clear removes every record.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()
	return cacher.Set([]*Record{})
}
