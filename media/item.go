// Package media defines the values exchanged between providers, dispatch and the choice surfaces.
package media

import (
	"encoding/json"
	"strings"

	"github.com/samber/lo"
)

// Kind drives which processing routine a provider applies to an item.
type Kind int

const (
	Other Kind = iota
	Movie
	Series
)

// ParseKind maps the type strings providers report to a Kind.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "film", "movie":
		return Movie
	case "tv", "series", "serie":
		return Series
	default:
		return Other
	}
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case Movie:
		return "film"
	case Series:
		return "tv"
	default:
		return "other"
	}
}

// MarshalJSON encodes the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind by name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = ParseKind(s)
	return nil
}

// Item is a single search result. Payload carries provider-specific fields
// that are handed back to the provider untouched when the item is processed.
type Item struct {
	Kind    Kind           `json:"type" jsonschema:"type=string,enum=film,enum=tv,enum=other"`
	Name    string         `json:"name"`
	URL     string         `json:"url,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Label is the text shown for the item in listings.
func (i *Item) Label() string {
	if i.Name != "" {
		return i.Name
	}
	return i.URL
}

// Field returns a payload value rendered as text.
func (i *Item) Field(name string) (string, bool) {
	v, ok := i.Payload[name]
	if !ok || v == nil {
		return "", false
	}

	switch value := v.(type) {
	case string:
		return value, true
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// Clone returns a deep enough copy for callers that must not alias provider state.
func (i *Item) Clone() *Item {
	c := *i
	c.Payload = lo.Assign(map[string]any{}, i.Payload)
	return &c
}
