// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/streamscout/streamscout/constant"
	"github.com/streamscout/streamscout/filesystem"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
var EnvConfigPath = strings.ToUpper(constant.App) + "_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The path can be overridden with the STREAMSCOUT_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Providers resolves the directory holding one subdirectory per Lua provider.
func Providers() string {
	return ensureDir(filepath.Join(Config(), "providers"))
}

// History resolves the path to the dispatch history file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Sessions resolves the path to the front-end session registry.
func Sessions() string {
	return filepath.Join(Cache(), "sessions.json")
}

// Queries resolves the absolute path to the localized search query suggestion registry.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Temp resolves a volatile filesystem path for transient application artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
