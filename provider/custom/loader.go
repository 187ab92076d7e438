// Package custom runs providers written in Lua. Every provider lives in its
// own directory under the providers root and is entered through init.lua.
package custom

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/streamscout/streamscout/config"
	"github.com/streamscout/streamscout/constant"
	"github.com/streamscout/streamscout/filesystem"
	"github.com/streamscout/streamscout/provider"
	lua "github.com/yuin/gopher-lua"
)

// Prompter answers the questions a script asks while processing a selection.
type Prompter interface {
	Ask(ctx context.Context, question string) (string, bool, error)
	Notify(ctx context.Context, message string)
}

// Options configure every state created by the loader.
type Options struct {
	Prompter Prompter
	// Settings is exposed to scripts as the global "config" table.
	// When nil the table reads config.Downloads() on every access.
	Settings map[string]any
}

// Finder enumerates the provider directories under dir. A missing dir is an
// error so that the caller can report it; an empty one yields no candidates.
func Finder(dir string, opts Options) provider.Finder {
	return func() ([]provider.Candidate, error) {
		entries, err := filesystem.API().ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("providers directory %s not found", dir)
			}
			return nil, err
		}

		var candidates []provider.Candidate
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			name := entry.Name()
			path := filepath.Join(dir, name, constant.ProviderEntrypoint)
			if exists, _ := filesystem.API().Exists(path); !exists {
				continue
			}

			candidates = append(candidates, provider.Candidate{
				Name:   name,
				Origin: path,
				Load: func() (provider.Provider, error) {
					return Load(name, path, opts)
				},
			})
		}

		return candidates, nil
	}
}

// Load executes the script at path in a fresh state. A script that runs but
// lacks a search function still loads; Validate reports it.
func Load(name, path string, opts Options) (*Provider, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state)
	registerUI(state, opts.Prompter)
	registerSettings(state, opts.Settings)

	if err := compileAndRun(state, path); err != nil {
		state.Close()
		return nil, err
	}

	return &Provider{name: name, state: state}, nil
}

func registerSettings(L *lua.LState, settings map[string]any) {
	if settings != nil {
		L.SetGlobal("config", toLValue(L, settings))
		return
	}

	meta := L.NewTable()
	L.SetField(meta, "__index", L.NewFunction(func(L *lua.LState) int {
		L.Push(toLValue(L, config.Downloads()[L.CheckString(2)]))
		return 1
	}))

	live := L.NewTable()
	L.SetMetatable(live, meta)
	L.SetGlobal("config", live)
}
