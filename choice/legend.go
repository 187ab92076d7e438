package choice

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/streamscout/streamscout/color"
	"github.com/streamscout/streamscout/provider"
	"github.com/streamscout/streamscout/style"
)

var categoryColors = map[provider.Category]lipgloss.Color{
	provider.Anime:        color.Red,
	provider.FilmOrSeries: color.Yellow,
	provider.Film:         color.Blue,
	provider.Series:       color.Green,
	provider.Other:        color.White,
}

// CategoryColor returns the colour a category is rendered with.
func CategoryColor(c provider.Category) lipgloss.Color {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return color.White
}

// Colored renders s in the colour of c.
func Colored(c provider.Category, s string) string {
	return style.Fg(CategoryColor(c))(s)
}

// Legend renders every category label in its colour.
func Legend() string {
	labels := lo.Map(provider.Categories(), func(c provider.Category, _ int) string {
		return Colored(c, c.Label())
	})

	return style.Bold(style.Fg(color.Green)("Category Legend:")) + " " + strings.Join(labels, " | ")
}

// PlainLegend is Legend without styling.
func PlainLegend() string {
	labels := lo.Map(provider.Categories(), func(c provider.Category, _ int) string {
		return c.Label()
	})

	return "Categories:\n" + strings.Join(labels, " | ")
}
