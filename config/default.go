// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/streamscout/streamscout/color"
	"github.com/streamscout/streamscout/constant"
	"github.com/streamscout/streamscout/key"
	"github.com/streamscout/streamscout/style"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.SessionKeepOpen, false, "Keep the session open.\nAfter every run the launcher restarts itself and shows the menu again")
	register(key.FrontendTelegram, false, "Drive the launcher from a Telegram bot instead of the console")
	register(key.FrontendTelegramToken, "", "Telegram bot token.\nFalls back to the system keyring when empty")
	register(key.FrontendTelegramChatID, "", "Telegram chat that is allowed to drive the launcher")
	register(key.FrontendPollTimeout, 30, "Long polling timeout for Telegram updates, in seconds")
	register(key.ProvidersExclude, []string{}, "Providers that are never loaded")
	register(key.ProvidersFrontendExclude, []string{"cb01new", "ddlstreamitaly", "guardaserie", "ilcorsaronero", "mostraguarda"}, "Providers that are not loaded while the Telegram front-end is active")
	register(key.DispatchMaxRetries, 0, "How many times an empty search is re-prompted before giving up.\n0 means until the operator cancels")
	register(key.LifecycleJoinTimeout, 500, "How long each background worker is waited for on exit, in milliseconds")
	register(key.DownloadsAddSiteName, false, "Prefix download folders with the provider name")
	register(key.DownloadsVideoWorkers, 12, "Concurrent video segment downloads")
	register(key.DownloadsAudioWorkers, 12, "Concurrent audio segment downloads")
	register(key.DownloadsAudioLanguages, []string{"ita"}, "Audio tracks to download")
	register(key.DownloadsSubtitleLanguages, []string{"ita", "eng"}, "Subtitle tracks to download")
	register(key.SearchShowQuerySuggestions, true, "Show query suggestions when searching")
	register(key.UIShowTrending, false, "Show trending titles on startup")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.HistorySaveOnDispatch, true, "Remember every dispatched selection")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.LogsMaxSize, 10, "Maximum size of a log file in megabytes before it is rotated")
	register(key.LogsMaxBackups, 5, "How many rotated log files are kept")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
