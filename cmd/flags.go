package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/streamscout/streamscout/config"
	"github.com/streamscout/streamscout/log"
	"github.com/streamscout/streamscout/provider"
	"golang.org/x/exp/slices"
)

// maxShorthandAttempts bounds how many letters of a provider name are tried.
const maxShorthandAttempts = 9

// reservedShorthands are taken by the root command's own flags.
var reservedShorthands = []string{"s", "h", "v", "I"}

// mintShorthand picks a one-letter shorthand for name that is not in used.
// The letters of the name are tried in order, lower case first and then
// upper case. The chosen letter is added to used.
func mintShorthand(name string, used map[string]bool) mo.Option[string] {
	var candidates []string
	for _, r := range name {
		if unicode.IsLetter(r) && r < unicode.MaxASCII {
			candidates = append(candidates, strings.ToLower(string(r)))
		}
	}
	for _, r := range name {
		if unicode.IsLetter(r) && r < unicode.MaxASCII {
			candidates = append(candidates, strings.ToUpper(string(r)))
		}
	}

	candidates = lo.Uniq(candidates)
	if len(candidates) > maxShorthandAttempts {
		candidates = candidates[:maxShorthandAttempts]
	}

	for _, c := range candidates {
		if !used[c] {
			used[c] = true
			return mo.Some(c)
		}
	}

	return mo.None[string]()
}

// registerProviderFlags adds one bool flag per alias. Aliases are visited in
// sorted order so the same providers always get the same shorthands.
func registerProviderFlags(cmd *cobra.Command, aliases []string) {
	aliases = slices.Clone(aliases)
	slices.Sort(aliases)

	used := lo.SliceToMap(reservedShorthands, func(s string) (string, bool) { return s, true })

	for _, alias := range aliases {
		name := strings.TrimSuffix(alias, provider.AliasSuffix)
		usage := "Search with the " + name + " provider"

		if short, ok := mintShorthand(name, used).Get(); ok {
			cmd.Flags().BoolP(alias, short, false, usage)
			continue
		}

		log.Warnf("no free shorthand for --%s, only the long flag is available", alias)
		cmd.Flags().Bool(alias, false, usage)
	}

	if len(aliases) > 1 {
		cmd.MarkFlagsMutuallyExclusive(aliases...)
	}
}

// chosenProviders returns the provider flags that were set.
func chosenProviders(flags *pflag.FlagSet, aliases []string) []string {
	return lo.Filter(aliases, func(alias string, _ int) bool {
		set, err := flags.GetBool(alias)
		return err == nil && set
	})
}

// registerOverrideFlags adds the switches that rewrite persisted settings.
func registerOverrideFlags(cmd *cobra.Command) {
	for _, o := range config.Overrides {
		switch config.Default[o.Key].Value.(type) {
		case bool:
			cmd.Flags().String(o.Flag, "", o.Usage)
		case int:
			cmd.Flags().Int(o.Flag, 0, o.Usage)
		case []string:
			cmd.Flags().StringSlice(o.Flag, nil, o.Usage)
		}
	}
}

// overrideValues collects the changed override flags keyed by configuration key.
func overrideValues(flags *pflag.FlagSet) (map[string]any, error) {
	values := make(map[string]any)

	for _, o := range config.Overrides {
		if !flags.Changed(o.Flag) {
			continue
		}

		var (
			value any
			err   error
		)

		switch config.Default[o.Key].Value.(type) {
		case bool:
			var raw string
			if raw, err = flags.GetString(o.Flag); err == nil {
				value, err = parseSwitch(raw)
			}
		case int:
			value, err = flags.GetInt(o.Flag)
		case []string:
			value, err = flags.GetStringSlice(o.Flag)
		}

		if err != nil {
			return nil, err
		}

		values[o.Key] = value
	}

	return values, nil
}

func parseSwitch(raw string) (bool, error) {
	value, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return false, fmt.Errorf("expected true or false, got %q", raw)
	}
	return value, nil
}
