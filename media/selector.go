package media

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/mo"
)

// Overrides pre-answer the season and episode prompts of series processing.
// Values are passed through verbatim ("3", "1-5", "*").
type Overrides struct {
	Season  mo.Option[string]
	Episode mo.Option[string]
}

// NewOverrides builds overrides from raw flag values, treating empty strings as absent.
func NewOverrides(season, episode string) Overrides {
	return Overrides{
		Season:  mo.EmptyableToOption(strings.TrimSpace(season)),
		Episode: mo.EmptyableToOption(strings.TrimSpace(episode)),
	}
}

// Selector identifies a result without asking the operator. It holds either
// a position in the upcoming result set or a structured item.
type Selector struct {
	index mo.Option[string]
	item  mo.Option[*Item]
}

// IndexSelector selects by position. The index is validated against the
// fresh result set at dispatch time.
func IndexSelector(index string) Selector {
	return Selector{index: mo.Some(index)}
}

// ItemSelector selects a fully described item; no search is needed.
func ItemSelector(item *Item) Selector {
	return Selector{item: mo.Some(item)}
}

// Item returns the structured item, if any.
func (s Selector) Item() (*Item, bool) {
	return s.item.Get()
}

// Index returns the raw index text, if any.
func (s Selector) Index() (string, bool) {
	return s.index.Get()
}

// Resolve locates the selected position within results.
func (s Selector) Resolve(results ResultSet) (*Item, error) {
	raw, ok := s.index.Get()
	if !ok {
		return nil, fmt.Errorf("selector carries no index")
	}

	i, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("index %q is not a number", raw)
	}

	item, ok := results.At(i)
	if !ok {
		return nil, fmt.Errorf("index %d is out of range (%d results)", i, results.Len())
	}

	return item, nil
}

// String describes the selector for logs.
func (s Selector) String() string {
	if it, ok := s.item.Get(); ok {
		return "item:" + it.Label()
	}
	return "index:" + s.index.OrEmpty()
}
