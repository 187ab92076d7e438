package history

import (
	"fmt"
	"time"

	"github.com/streamscout/streamscout/media"
)

// Record is one dispatched selection.
type Record struct {
	Provider string      `json:"provider"`
	Item     *media.Item `json:"item"`
	Season   string      `json:"season,omitempty"`
	Episode  string      `json:"episode,omitempty"`
	At       time.Time   `json:"at"`
}

func newRecord(provider string, item *media.Item, overrides media.Overrides) *Record {
	return &Record{
		Provider: provider,
		Item:     item.Clone(),
		Season:   overrides.Season.OrEmpty(),
		Episode:  overrides.Episode.OrEmpty(),
		At:       time.Now(),
	}
}

func (r *Record) String() string {
	s := fmt.Sprintf("%s [%s] %s", r.At.Format(time.DateTime), r.Provider, r.Item.Label())
	if r.Season != "" || r.Episode != "" {
		s += fmt.Sprintf(" S%s E%s", orAll(r.Season), orAll(r.Episode))
	}
	return s
}

func orAll(s string) string {
	if s == "" {
		return "*"
	}
	return s
}
