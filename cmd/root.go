// Package cmd implements the command-line interface for streamscout.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/streamscout/streamscout/color"
	"github.com/streamscout/streamscout/config"
	"github.com/streamscout/streamscout/constant"
	"github.com/streamscout/streamscout/icon"
	"github.com/streamscout/streamscout/key"
	"github.com/streamscout/streamscout/log"
	"github.com/streamscout/streamscout/provider"
	"github.com/streamscout/streamscout/provider/custom"
	"github.com/streamscout/streamscout/router"
	"github.com/streamscout/streamscout/style"
	"github.com/streamscout/streamscout/util"
	"github.com/streamscout/streamscout/where"
)

// registry is built once in Execute, before the command line is parsed,
// because every registered provider contributes a flag.
var registry = &provider.Registry{}

// prompt forwards questions asked by provider scripts to the resolver of
// the running launch.
var prompt = &forwarder{}

// Scripted download flags.
const (
	flagDownloadSeries = "download-series"
	flagSite           = "site"
	flagIndex          = "index"
	flagSeason         = "dl-season"
	flagEpisodes       = "dl-episodes"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the icon variant (e.g. nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().String(flagDownloadSeries, "", "Name of the series to download without prompting")
	rootCmd.Flags().String(flagSite, "", "Position of the provider in the menu")
	rootCmd.Flags().String(flagIndex, "", "Position of the result to download")
	rootCmd.Flags().String(flagSeason, "", "Season to download (N, A-B or *)")
	rootCmd.Flags().String(flagEpisodes, "", "Episodes to download (N, A-B or *)")
	rootCmd.MarkFlagsRequiredTogether(flagDownloadSeries, flagSite, flagIndex, flagSeason, flagEpisodes)

	rootCmd.Flags().Bool("global", false, "Search every provider at once")
	rootCmd.Flags().StringP("search", "s", "", "Search terms")
	rootCmd.Flags().Bool("json", false, "Print the search results as JSON instead of choosing one")

	registerOverrideFlags(rootCmd)
}

// rootCmd defines the entry point for the streamscout application.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Search streaming catalogues and hand the chosen title to its provider",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Search streaming catalogues and hand the chosen title to its provider"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		overrides, err := overrideValues(cmd.Flags())
		handleErr(err)
		handleErr(config.Apply(overrides))

		handleErr(launch(config.Load(), invocation(cmd.Flags()), sessionArg(args)))
	},
}

// invocation reads the routing flags.
func invocation(flags *pflag.FlagSet) router.Invocation {
	inv := router.Invocation{
		DownloadSeries: lo.Must(flags.GetString(flagDownloadSeries)),
		Site:           lo.Must(flags.GetString(flagSite)),
		Index:          lo.Must(flags.GetString(flagIndex)),
		Season:         lo.Must(flags.GetString(flagSeason)),
		Episodes:       lo.Must(flags.GetString(flagEpisodes)),
		Global:         lo.Must(flags.GetBool("global")),
		JSON:           lo.Must(flags.GetBool("json")),
		Providers:      chosenProviders(flags, registry.Aliases()),
	}

	if flags.Changed("search") {
		inv.Search = mo.Some(lo.Must(flags.GetString("search")))
	}

	return inv
}

func sessionArg(args []string) mo.Option[string] {
	if len(args) == 0 {
		return mo.None[string]()
	}
	return mo.Some(args[0])
}

// Execute loads the providers, mints their flags and runs the command line.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	go func() {
		_ = util.Delete(where.Temp())
	}()

	registry = provider.Load(config.Load().Exclude, custom.Finder(where.Providers(), custom.Options{Prompter: prompt}))
	registerProviderFlags(rootCmd, registry.Aliases())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
