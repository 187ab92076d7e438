package choice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/streamscout/streamscout/icon"
	"github.com/streamscout/streamscout/lifecycle"
	"github.com/streamscout/streamscout/media"
	"github.com/streamscout/streamscout/query"
	"github.com/streamscout/streamscout/util"
)

// Attacher registers the running scheduler with the process lifecycle.
type Attacher interface {
	Attach(s lifecycle.Scheduler) (release func())
}

// Console is the terminal surface.
type Console struct {
	attacher Attacher
	out      io.Writer
}

// NewConsole returns a terminal resolver. attacher may be nil.
func NewConsole(attacher Attacher) *Console {
	return &Console{attacher: attacher, out: os.Stdout}
}

// ChooseProvider prints the category legend and asks for a provider.
func (c *Console) ChooseProvider(_ context.Context, options []Option) (int, bool, error) {
	if len(options) == 0 {
		return 0, false, nil
	}

	_, _ = fmt.Fprintf(c.out, "\n%s\n\n", Legend())

	prompt := &survey.Select{
		Message: "Select provider",
		Options: lo.Map(options, func(o Option, i int) string {
			return fmt.Sprintf("%d: %s", i, o.Label)
		}),
		Description: func(_ string, i int) string {
			return Colored(options[i].Category, options[i].Category.Label())
		},
		PageSize: min(len(options), 15),
	}

	var index int
	if err := survey.AskOne(prompt, &index); err != nil {
		return 0, false, interrupted(err)
	}

	return index, true, nil
}

// AskQuery reads the search terms, suggesting earlier searches.
func (c *Console) AskQuery(ctx context.Context, provider string) (string, bool, error) {
	prompt := &survey.Input{
		Message: fmt.Sprintf("Search %s", provider),
		Suggest: query.SuggestMany,
	}

	return c.input(ctx, prompt)
}

// Ask reads a free-form answer.
func (c *Console) Ask(ctx context.Context, question string) (string, bool, error) {
	return c.input(ctx, &survey.Input{Message: question})
}

func (c *Console) input(_ context.Context, prompt *survey.Input) (string, bool, error) {
	var answer string
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", false, interrupted(err)
	}

	return strings.TrimSpace(answer), true, nil
}

// ChooseResult shows the table in an interactive picker. The running
// program is attached to the lifecycle for the duration of the choice.
func (c *Console) ChooseResult(ctx context.Context, t media.Table) (int, bool, error) {
	if len(t.Rows) == 0 {
		return 0, false, nil
	}

	width, height, err := util.TerminalSize()
	if err != nil {
		width, height = 0, 0
	}

	p := newPicker(util.Quantify(len(t.Rows), "result", "results"), t, width, height)
	program := tea.NewProgram(p, tea.WithContext(ctx))

	if c.attacher != nil {
		release := c.attacher.Attach(program)
		defer release()
	}

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return 0, false, nil
		}
		return 0, false, err
	}

	return p.chosen, p.ok, nil
}

// Notify prints message.
func (c *Console) Notify(_ context.Context, message string) {
	_, _ = fmt.Fprintf(c.out, "%s %s\n", icon.Get(icon.Warn), message)
}

// interrupted drops the error of a prompt the operator interrupted, which
// then reads as "no selection".
func interrupted(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return nil
	}
	return err
}
