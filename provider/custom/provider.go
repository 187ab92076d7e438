package custom

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/mo"
	"github.com/streamscout/streamscout/constant"
	"github.com/streamscout/streamscout/media"
	"github.com/streamscout/streamscout/provider"
	lua "github.com/yuin/gopher-lua"
)

// Provider is a provider backed by a Lua state.
type Provider struct {
	provider.Store

	name string

	// mu guards state, which is not safe for concurrent use.
	mu    sync.Mutex
	state *lua.LState
}

// Name is the directory name of the provider.
func (p *Provider) Name() string {
	return p.name
}

// Validate reports a script without a search function.
func (p *Provider) Validate() error {
	if !p.defines(constant.SearchFn) {
		return provider.ErrNoSearch
	}
	return nil
}

// Metadata reads the optional metadata globals of the script.
func (p *Provider) Metadata() provider.Metadata {
	p.mu.Lock()
	defer p.mu.Unlock()

	number := func(name string) mo.Option[int] {
		if n, ok := p.state.GetGlobal(name).(lua.LNumber); ok {
			return mo.Some(int(n))
		}
		return mo.None[int]()
	}

	text := func(name string) mo.Option[string] {
		if s, ok := p.state.GetGlobal(name).(lua.LString); ok && s != "" {
			return mo.Some(string(s))
		}
		return mo.None[string]()
	}

	meta := provider.Metadata{
		Index:       number(constant.IndexGlobal),
		Priority:    number(constant.PriorityGlobal),
		DisplayName: text(constant.NameGlobal),
	}

	if useFor, ok := text(constant.UseForGlobal).Get(); ok {
		meta.Category = mo.Some(provider.ParseCategory(useFor))
	}

	return meta
}

// Prepare calls the optional Prepare function. It returns a table with
// a "search" list and a "process" table.
func (p *Provider) Prepare(ctx context.Context) (provider.Extras, error) {
	if !p.defines(constant.PrepareFn) {
		return provider.Extras{}, nil
	}

	ret, err := p.call(ctx, constant.PrepareFn)
	if err != nil {
		return provider.Extras{}, err
	}

	var extras provider.Extras
	table, ok := ret.(*lua.LTable)
	if !ok {
		return extras, nil
	}

	if search, ok := fromLValue(table.RawGetString("search")).([]any); ok {
		extras.Search = search
	}
	if process, ok := fromLValue(table.RawGetString("process")).(map[string]any); ok {
		extras.Process = process
	}

	return extras, nil
}

// Search calls the script's Search(query, ...) and replaces the results.
func (p *Provider) Search(ctx context.Context, query string, extras provider.Extras) (int, error) {
	args := []lua.LValue{lua.LString(query)}

	p.mu.Lock()
	for _, e := range extras.Search {
		args = append(args, toLValue(p.state, e))
	}
	p.mu.Unlock()

	ret, err := p.call(ctx, constant.SearchFn, args...)
	if err != nil {
		return 0, err
	}

	if ret == lua.LNil {
		return p.Replace(nil), nil
	}

	table, ok := ret.(*lua.LTable)
	if !ok {
		return 0, fmt.Errorf("%s returned %s, expected table", constant.SearchFn, ret.Type())
	}

	items, err := itemsFromTable(table)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	columns := getStringList(p.state.G.Global, constant.ColumnsGlobal)
	p.mu.Unlock()

	return p.Replace(items, columns...), nil
}

// ProcessSelection routes the item to DownloadFilm, DownloadSeries or DownloadTitle.
func (p *Provider) ProcessSelection(ctx context.Context, item *media.Item, overrides media.Overrides, extras provider.Extras) error {
	return p.handlers().Process(ctx, item, overrides, extras)
}

func (p *Provider) handlers() provider.Handlers {
	var h provider.Handlers

	if p.defines(constant.DownloadFilmFn) {
		h.Film = func(ctx context.Context, item *media.Item, extras provider.Extras) error {
			return p.download(ctx, constant.DownloadFilmFn, item, nil, extras)
		}
	}

	if p.defines(constant.DownloadSeriesFn) {
		h.Series = func(ctx context.Context, item *media.Item, o media.Overrides, extras provider.Extras) error {
			return p.download(ctx, constant.DownloadSeriesFn, item, []lua.LValue{optional(o.Season), optional(o.Episode)}, extras)
		}
	}

	if p.defines(constant.DownloadTitleFn) {
		h.Title = func(ctx context.Context, item *media.Item, extras provider.Extras) error {
			return p.download(ctx, constant.DownloadTitleFn, item, nil, extras)
		}
	}

	return h
}

func (p *Provider) download(ctx context.Context, fn string, item *media.Item, middle []lua.LValue, extras provider.Extras) error {
	p.mu.Lock()
	args := []lua.LValue{itemToTable(p.state, item)}
	args = append(args, middle...)
	args = append(args, toLValue(p.state, extras.Process))
	p.mu.Unlock()

	_, err := p.call(ctx, fn, args...)
	return err
}

// optional maps an absent override to nil, which scripts read as "ask".
func optional(o mo.Option[string]) lua.LValue {
	if v, ok := o.Get(); ok {
		return lua.LString(v)
	}
	return lua.LNil
}

func (p *Provider) defines(fn string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state.GetGlobal(fn).Type() == lua.LTFunction
}

// call executes a global function and returns its first result.
func (p *Provider) call(ctx context.Context, fn string, args ...lua.LValue) (lua.LValue, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	luaFn := p.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is not defined", fn)
	}

	p.state.SetContext(ctx)
	defer p.state.RemoveContext()

	err := p.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", p.name, fn, err)
	}

	ret := p.state.Get(-1)
	p.state.Pop(1)
	return ret, nil
}

// Close releases the Lua state.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Close()
}
