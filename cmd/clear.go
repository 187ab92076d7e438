package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/streamscout/streamscout/history"
	"github.com/streamscout/streamscout/icon"
	"github.com/streamscout/streamscout/util"
	"github.com/streamscout/streamscout/where"
)

type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func() error
}

func removeAt(location func() string) func() error {
	return func() error {
		if err := util.Delete(location()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), removeAt(where.Cache)},
	{"dispatch history", "history", mo.Some("s"), history.Clear},
	{"query history", "queries", mo.Some("q"), removeAt(where.Queries)},
	{"front-end sessions", "sessions", mo.None[string](), removeAt(where.Sessions)},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if short, ok := target.argShort.Get(); ok {
			clearCmd.Flags().BoolP(target.argLong, short, false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached and stored state",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := target.clear()
			erase()

			if err != nil {
				handleErr(fmt.Errorf("clear %s: %w", target.name, err))
			}
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
