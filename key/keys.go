// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Session behaviour.
const (
	SessionKeepOpen = "session.keep_open"
)

// Alternate front-end (Telegram bot).
const (
	FrontendTelegram       = "frontend.telegram"
	FrontendTelegramToken  = "frontend.telegram_token"
	FrontendTelegramChatID = "frontend.telegram_chat_id"
	FrontendPollTimeout    = "frontend.poll_timeout"
)

// Provider registry - these keys control discovery and exclusion of providers.
const (
	ProvidersExclude         = "providers.exclude"
	ProvidersFrontendExclude = "providers.frontend_exclude"
)

// Dispatch and lifecycle.
const (
	DispatchMaxRetries   = "dispatch.max_retries"
	LifecycleJoinTimeout = "lifecycle.join_timeout"
)

// Download settings handed to providers. The CLI override flags write these.
const (
	DownloadsAddSiteName       = "downloads.add_site_name"
	DownloadsVideoWorkers      = "downloads.video_workers"
	DownloadsAudioWorkers      = "downloads.audio_workers"
	DownloadsAudioLanguages    = "downloads.audio_languages"
	DownloadsSubtitleLanguages = "downloads.subtitle_languages"
)

// Search Interaction - these keys define the UI/UX parameters for search discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Interface.
const (
	UIShowTrending = "ui.show_trending"
	IconsVariant   = "icons.variant"
)

// History Tracking - these keys configure the persistence of dispatched selections.
const (
	HistorySaveOnDispatch = "history.save_on_dispatch"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite      = "logs.write"
	LogsLevel      = "logs.level"
	LogsJson       = "logs.json"
	LogsMaxSize    = "logs.max_size"
	LogsMaxBackups = "logs.max_backups"
)

// CLI Execution Environment.
const (
	CliColored = "cli.colored"
)
