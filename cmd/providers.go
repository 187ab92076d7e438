package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamscout/streamscout/choice"
	"github.com/streamscout/streamscout/color"
	"github.com/streamscout/streamscout/constant"
	"github.com/streamscout/streamscout/filesystem"
	"github.com/streamscout/streamscout/icon"
	"github.com/streamscout/streamscout/open"
	"github.com/streamscout/streamscout/provider"
	"github.com/streamscout/streamscout/provider/custom"
	"github.com/streamscout/streamscout/style"
	"github.com/streamscout/streamscout/util"
	"github.com/streamscout/streamscout/where"
)

func init() {
	rootCmd.AddCommand(providersCmd)
}

var providersCmd = &cobra.Command{
	Use:     "providers",
	Aliases: []string{"sources"},
	Short:   "Manage the registered providers",
}

func init() {
	providersCmd.AddCommand(providersListCmd)

	providersListCmd.Flags().BoolP("raw", "r", false, "Print only the aliases")
	providersListCmd.Flags().BoolP("json", "j", false, "Print the providers as JSON")
	providersListCmd.MarkFlagsMutuallyExclusive("raw", "json")
	providersListCmd.SetOut(os.Stdout)
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered providers in menu order",
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case lo.Must(cmd.Flags().GetBool("raw")):
			for _, alias := range registry.Aliases() {
				cmd.Println(alias)
			}
		case lo.Must(cmd.Flags().GetBool("json")):
			handleErr(writeProvidersJSON(cmd.OutOrStdout(), registry.Descriptors()))
		default:
			writeProviders(cmd.OutOrStdout(), registry.Descriptors())
		}
	},
}

type providerInfo struct {
	Position int    `json:"position"`
	Alias    string `json:"alias"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Priority int    `json:"priority"`
}

func writeProvidersJSON(w io.Writer, descriptors []*provider.Descriptor) error {
	infos := lo.Map(descriptors, func(d *provider.Descriptor, i int) providerInfo {
		return providerInfo{Position: i, Alias: d.Alias, Name: d.DisplayName, Category: d.Category.String(), Priority: d.Priority}
	})
	return json.NewEncoder(w).Encode(infos)
}

func writeProviders(w io.Writer, descriptors []*provider.Descriptor) {
	if len(descriptors) == 0 {
		_, _ = fmt.Fprintf(w, "%s no providers found in %s\n", icon.Get(icon.Warn), where.Providers())
		return
	}

	_, _ = fmt.Fprintln(w, choice.Legend())
	_, _ = fmt.Fprintln(w)

	for i, d := range descriptors {
		_, _ = fmt.Fprintf(w, "%2d  %s %s\n", i, choice.Colored(d.Category, d.DisplayName), style.Faint("--"+d.Alias))
	}
}

func init() {
	providersCmd.AddCommand(providersRemoveCmd)

	providersRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Name of the provider to remove")
	lo.Must0(providersRemoveCmd.MarkFlagRequired("name"))
	lo.Must0(providersRemoveCmd.RegisterFlagCompletionFunc("name", completionProviderDirs))
}

func completionProviderDirs(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	entries, err := filesystem.API().ReadDir(where.Providers())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return lo.FilterMap(entries, func(entry os.FileInfo, _ int) (string, bool) {
		return entry.Name(), entry.IsDir()
	}), cobra.ShellCompDirectiveNoFileComp
}

var providersRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove provider scripts from the providers directory",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			handleErr(util.Delete(filepath.Join(where.Providers(), name)))
			fmt.Printf("%s removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	providersCmd.AddCommand(providersGenCmd)

	providersGenCmd.Flags().StringP("name", "n", "", "Name of the new provider")
	providersGenCmd.Flags().StringP("url", "u", "", "Base URL of the catalogue")
	providersGenCmd.Flags().StringP("category", "c", provider.Other.String(), "Catalogue category (anime, film_serie, film, serie, other)")
	providersGenCmd.Flags().IntP("index", "i", provider.DefaultSortIndex, "Menu position")
	providersGenCmd.Flags().BoolP("edit", "e", false, "Open the generated script in $EDITOR")

	lo.Must0(providersGenCmd.MarkFlagRequired("name"))
	lo.Must0(providersGenCmd.MarkFlagRequired("url"))
	lo.Must0(providersGenCmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(provider.Categories(), func(c provider.Category, _ int) string { return c.String() }), cobra.ShellCompDirectiveNoFileComp
	}))
}

// scaffold holds the values substituted into the provider template.
type scaffold struct {
	Name     string
	URL      string
	Author   string
	Category string
	Index    int

	NameGlobal       string
	IndexGlobal      string
	UseForGlobal     string
	PriorityGlobal   string
	SearchFn         string
	DownloadFilmFn   string
	DownloadSeriesFn string
}

func newScaffold(name, url, category string, index int) scaffold {
	author := "Anonymous"
	if usr, err := user.Current(); err == nil {
		author = usr.Username
	}

	return scaffold{
		Name:             name,
		URL:              url,
		Author:           author,
		Category:         provider.ParseCategory(category).String(),
		Index:            index,
		NameGlobal:       constant.NameGlobal,
		IndexGlobal:      constant.IndexGlobal,
		UseForGlobal:     constant.UseForGlobal,
		PriorityGlobal:   constant.PriorityGlobal,
		SearchFn:         constant.SearchFn,
		DownloadFilmFn:   constant.DownloadFilmFn,
		DownloadSeriesFn: constant.DownloadSeriesFn,
	}
}

var providerTemplate = lo.Must(template.New("provider").Funcs(template.FuncMap{
	"repeat": strings.Repeat,
	"plus":   func(a, b int) int { return a + b },
	"max":    util.Max[int],
}).Parse(constant.ProviderTemplate))

// generate writes a new provider directory under root and returns the path
// of its entry point.
func generate(root string, s scaffold) (string, error) {
	dir := filepath.Join(root, util.SanitizeFilename(strings.ToLower(s.Name)))
	if err := filesystem.API().MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}

	target := filepath.Join(dir, constant.ProviderEntrypoint)
	f, err := filesystem.API().Create(target)
	if err != nil {
		return "", err
	}
	defer util.Ignore(f.Close)

	if err := providerTemplate.Execute(f, s); err != nil {
		return "", err
	}

	return target, nil
}

var providersGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Scaffold a new Lua provider",
	Long:  `Generate a provider directory with an init.lua declaring the metadata and the search and download functions.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		target, err := generate(where.Providers(), newScaffold(
			lo.Must(cmd.Flags().GetString("name")),
			lo.Must(cmd.Flags().GetString("url")),
			lo.Must(cmd.Flags().GetString("category")),
			lo.Must(cmd.Flags().GetInt("index")),
		))
		handleErr(err)

		cmd.Println(target)

		if lo.Must(cmd.Flags().GetBool("edit")) {
			handleErr(open.RunWith(target, os.Getenv("EDITOR")))
		}
	},
}

func init() {
	providersCmd.AddCommand(providersRunCmd)
}

var providersRunCmd = &cobra.Command{
	Use:     "run [file]",
	Short:   "Execute a Lua provider script",
	Long:    `Load a script the way the registry does and report whether it would be registered.`,
	Args:    cobra.ExactArgs(1),
	Example: "  " + constant.App + " providers run ./init.lua",
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		p, err := custom.Load(scriptName(path), path, custom.Options{Prompter: choice.NewConsole(nil)})
		handleErr(err)
		defer p.Close()

		handleErr(p.Validate())

		meta := p.Metadata()
		fmt.Printf(
			"%s %s loaded, category %s, menu position %d\n",
			icon.Get(icon.Success),
			style.Fg(color.Yellow)(meta.DisplayName.OrElse(p.Name())),
			choice.Colored(meta.Category.OrElse(provider.Other), meta.Category.OrElse(provider.Other).Label()),
			meta.Index.OrElse(provider.DefaultSortIndex),
		)
	},
}

// scriptName names a script after its directory when it is an entry point
// and after the file otherwise.
func scriptName(path string) string {
	if filepath.Base(path) == constant.ProviderEntrypoint {
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.Base(filepath.Dir(abs))
		}
	}
	return util.FileStem(path)
}
