package choice

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/streamscout/streamscout/color"
	"github.com/streamscout/streamscout/media"
	"github.com/streamscout/streamscout/style"
)

// chrome is the number of terminal rows the picker needs besides the table.
const chrome = 6

// headerHeight is the column header row plus its bottom border. The table
// counts it as part of its height.
const headerHeight = 2

type pickerKeymap struct {
	choose, cancel, up, down key.Binding
}

func newPickerKeymap() pickerKeymap {
	return pickerKeymap{
		choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
		cancel: key.NewBinding(
			key.WithKeys("esc", "q", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

func (k pickerKeymap) ShortHelp() []key.Binding {
	return []key.Binding{k.up, k.down, k.choose, k.cancel}
}

func (k pickerKeymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// picker shows a result table and records the row the operator chose.
type picker struct {
	title  string
	table  table.Model
	keymap pickerKeymap
	help   help.Model

	chosen int
	ok     bool
}

func newPicker(title string, t media.Table, width, height int) *picker {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(color.HiYellow).
		Bold(true)

	cols := columns(t, width)
	model := table.New(
		table.WithColumns(cols),
		table.WithRows(lo.Map(t.Rows, func(r []string, _ int) table.Row { return r })),
		table.WithFocused(true),
		table.WithStyles(styles),
	)
	model.SetHeight(bodyHeight(len(t.Rows), height) + headerHeight)
	model.SetWidth(lo.SumBy(cols, func(c table.Column) int { return c.Width + 2 }))

	return &picker{
		title:  title,
		table:  model,
		keymap: newPickerKeymap(),
		help:   help.New(),
		chosen: -1,
	}
}

func (p *picker) Init() tea.Cmd {
	return nil
}

func (p *picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.table.SetHeight(bodyHeight(len(p.table.Rows()), msg.Height) + headerHeight)
		p.help.Width = msg.Width
		return p, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keymap.cancel):
			return p, tea.Quit
		case key.Matches(msg, p.keymap.choose):
			if len(p.table.Rows()) > 0 {
				p.chosen, p.ok = p.table.Cursor(), true
			}
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

func (p *picker) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		style.Title(p.title),
		p.table.View(),
		p.help.View(p.keymap),
	)
}

// columns sizes each column to its widest cell and shrinks the widest ones
// until the table fits width. A non-positive width disables shrinking.
func columns(t media.Table, width int) []table.Column {
	widths := lo.Map(t.Columns, func(title string, i int) int {
		w := lipgloss.Width(title)
		for _, row := range t.Rows {
			if i < len(row) {
				w = max(w, lipgloss.Width(row[i]))
			}
		}
		return min(w, media.CellWidth)
	})

	if width > 0 {
		// each column is padded by one cell on both sides
		budget := width - 2*len(widths)
		for lo.Sum(widths) > budget {
			i := lo.IndexOf(widths, lo.Max(widths))
			if widths[i] <= 4 {
				break
			}
			widths[i]--
		}
	}

	return lo.Map(t.Columns, func(title string, i int) table.Column {
		return table.Column{Title: title, Width: widths[i]}
	})
}

// bodyHeight is the number of rows shown, as many as fit in terminal.
func bodyHeight(rows, terminal int) int {
	budget := terminal - chrome - headerHeight
	if budget <= 0 {
		return max(rows, 1)
	}
	return max(min(rows, budget), 1)
}
