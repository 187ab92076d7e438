// Package icon renders the symbols printed next to status lines. The
// variant is chosen with the icons.variant setting.
package icon

import (
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/streamscout/streamscout/key"
	"golang.org/x/exp/slices"
)

// Icon identifies a UI symbol.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Progress
	Warn
	Question
	Search
	Lua
	Cancel
)

// variants in the column order of the glyph table.
var variants = []string{"emoji", "nerd", "plain", "kaomoji", "squares"}

// AvailableVariants lists the accepted icons.variant values.
func AvailableVariants() []string {
	return slices.Clone(variants)
}

type glyphs [5]string

var icons = map[Icon]glyphs{
	Fail:     {"💀", "", "x", "(×_×)", "🟥"},
	Success:  {"🎉", "", "✓", "(ᵔ◡ᵔ)", "🟩"},
	Progress: {"⏳", "", "…", "(・_・)", "🟦"},
	Warn:     {"⚠️", "", "!", "(°ロ°)", "🟨"},
	Question: {"❓", "", "?", "(・・?)", "🟪"},
	Search:   {"🔍", "", ">", "(⌐■_■)", "⬜"},
	Lua:      {"🌙", "", "lua", "(◕‿◕)", "🟫"},
	Cancel:   {"🚪", "", "-", "(｡•́︿•̀｡)", "⬛"},
}

// Get renders i in the configured variant. Unknown variants render nothing.
func Get(i Icon) string {
	column := lo.IndexOf(variants, viper.GetString(key.IconsVariant))
	if column < 0 {
		return ""
	}
	return icons[i][column]
}
