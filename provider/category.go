package provider

import (
	"strings"

	"github.com/samber/mo"
)

// Category is a provider's declared content focus. It is used for grouping
// and colour coding only.
type Category int

const (
	Other Category = iota
	Anime
	Film
	Series
	FilmOrSeries
)

// ParseCategory maps the category strings modules declare.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "anime":
		return Anime
	case "film", "movie":
		return Film
	case "serie", "series", "tv":
		return Series
	case "film_serie", "film_series":
		return FilmOrSeries
	default:
		return Other
	}
}

// String returns the declaration form of the category.
func (c Category) String() string {
	switch c {
	case Anime:
		return "anime"
	case Film:
		return "film"
	case Series:
		return "serie"
	case FilmOrSeries:
		return "film_serie"
	default:
		return "other"
	}
}

// Label is the human readable form of the category.
func (c Category) Label() string {
	switch c {
	case Anime:
		return "Anime"
	case Film:
		return "Film"
	case Series:
		return "Series"
	case FilmOrSeries:
		return "Film & Series"
	default:
		return "Other"
	}
}

// Categories lists every category in legend order.
func Categories() []Category {
	return []Category{Anime, FilmOrSeries, Film, Series, Other}
}

// Metadata is what a module declares about itself. Absent values take the
// registry defaults.
type Metadata struct {
	Index       mo.Option[int]
	Category    mo.Option[Category]
	Priority    mo.Option[int]
	DisplayName mo.Option[string]
}
