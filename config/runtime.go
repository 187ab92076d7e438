package config

import (
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/streamscout/streamscout/key"
)

// Runtime is the configuration a single run reads.
// It is captured once after flags are parsed and passed down explicitly.
type Runtime struct {
	KeepOpen     bool
	AltFrontEnd  bool
	ShowTrending bool
	MaxRetries   int
	JoinTimeout  time.Duration
	Exclude      []string
}

// Load captures the current configuration.
func Load() Runtime {
	alt := viper.GetBool(key.FrontendTelegram)

	exclude := viper.GetStringSlice(key.ProvidersExclude)
	if alt {
		exclude = append(exclude, viper.GetStringSlice(key.ProvidersFrontendExclude)...)
	}

	return Runtime{
		KeepOpen:     viper.GetBool(key.SessionKeepOpen),
		AltFrontEnd:  alt,
		ShowTrending: viper.GetBool(key.UIShowTrending),
		MaxRetries:   lo.Max([]int{viper.GetInt(key.DispatchMaxRetries), 0}),
		JoinTimeout:  time.Duration(viper.GetInt(key.LifecycleJoinTimeout)) * time.Millisecond,
		Exclude:      lo.Uniq(exclude),
	}
}

// Override maps a legacy command line switch to the configuration key it rewrites.
type Override struct {
	Flag  string
	Key   string
	Usage string
}

// Overrides lists the switches that rewrite persisted download and session settings.
var Overrides = []Override{
	{"add_siteName", key.DownloadsAddSiteName, "Prefix download folders with the provider name (true/false)"},
	{"not_close", key.SessionKeepOpen, "Keep the session open after each run (true/false)"},
	{"default_video_worker", key.DownloadsVideoWorkers, "Concurrent video segment downloads"},
	{"default_audio_worker", key.DownloadsAudioWorkers, "Concurrent audio segment downloads"},
	{"specific_list_audio", key.DownloadsAudioLanguages, "Comma separated audio languages"},
	{"specific_list_subtitles", key.DownloadsSubtitleLanguages, "Comma separated subtitle languages"},
}

// Apply sets every given key and persists the result when anything changed.
func Apply(values map[string]any) error {
	if len(values) == 0 {
		return nil
	}

	for k, v := range values {
		viper.Set(k, v)
	}

	return Persist()
}

// Downloads returns the settings exposed to provider scripts.
func Downloads() map[string]any {
	return map[string]any{
		"add_site_name":      viper.GetBool(key.DownloadsAddSiteName),
		"video_workers":      viper.GetInt(key.DownloadsVideoWorkers),
		"audio_workers":      viper.GetInt(key.DownloadsAudioWorkers),
		"audio_languages":    viper.GetStringSlice(key.DownloadsAudioLanguages),
		"subtitle_languages": viper.GetStringSlice(key.DownloadsSubtitleLanguages),
	}
}
