// Package color names the terminal colors used for output.
package color

import "github.com/charmbracelet/lipgloss"

// New returns the lipgloss color for an ANSI index or a hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")
	White  = New("7")
)

// High intensity variants.
var (
	HiRed    = New("9")
	HiYellow = New("11")
	HiPurple = New("13")
)
