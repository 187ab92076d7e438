package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamscout/streamscout/choice"
	"github.com/streamscout/streamscout/config"
	"github.com/streamscout/streamscout/dispatch"
	"github.com/streamscout/streamscout/media"
	"github.com/streamscout/streamscout/provider"
)

type siteProvider struct {
	provider.Store

	name      string
	processed []media.Overrides
	items     []string
	fail      error
	explode   bool
}

func (s *siteProvider) Search(_ context.Context, query string, _ provider.Extras) (int, error) {
	items := make([]*media.Item, 0, len(s.items))
	for _, title := range s.items {
		items = append(items, &media.Item{Kind: media.Series, Name: title})
	}
	return s.Replace(items), nil
}

func (s *siteProvider) ProcessSelection(_ context.Context, _ *media.Item, o media.Overrides, _ provider.Extras) error {
	if s.explode {
		panic("player crashed")
	}
	s.processed = append(s.processed, o)
	return s.fail
}

func (s *siteProvider) Metadata() provider.Metadata {
	return provider.Metadata{Index: mo.Some(len(s.name))}
}

type fakeResolver struct {
	provider mo.Option[int]
	query    string
	result   mo.Option[int]
	notified []string
	offered  []choice.Option
}

func (f *fakeResolver) ChooseProvider(_ context.Context, options []choice.Option) (int, bool, error) {
	f.offered = options
	i, ok := f.provider.Get()
	return i, ok, nil
}

func (f *fakeResolver) AskQuery(context.Context, string) (string, bool, error) {
	return f.query, f.query != "", nil
}

func (f *fakeResolver) ChooseResult(context.Context, media.Table) (int, bool, error) {
	i, ok := f.result.Get()
	return i, ok, nil
}

func (f *fakeResolver) Ask(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (f *fakeResolver) Notify(_ context.Context, message string) {
	f.notified = append(f.notified, message)
}

type fakeLifecycle struct {
	relaunches int
	exits      []int
}

func (f *fakeLifecycle) Relaunch()          { f.relaunches++ }
func (f *fakeLifecycle) ForceExit(code int) { f.exits = append(f.exits, code) }

type fixture struct {
	router    *Router
	resolver  *fakeResolver
	lifecycle *fakeLifecycle
	sites     map[string]*siteProvider
	out       *bytes.Buffer
}

func newFixture(runtime config.Runtime) *fixture {
	f := &fixture{
		resolver:  &fakeResolver{},
		lifecycle: &fakeLifecycle{},
		sites: map[string]*siteProvider{
			"ab":  {name: "ab", items: []string{"Dark", "Dark Matter"}},
			"cde": {name: "cde", items: []string{"Darkwing Duck"}},
		},
		out: &bytes.Buffer{},
	}

	var candidates []provider.Candidate
	for _, name := range []string{"cde", "ab"} {
		site := f.sites[name]
		candidates = append(candidates, provider.Candidate{
			Name: name,
			Load: func() (provider.Provider, error) { return site, nil },
		})
	}

	registry, errs := provider.Build(candidates, nil)
	So(errs, ShouldBeEmpty)

	f.router = &Router{
		Registry:   registry,
		Dispatcher: &dispatch.Dispatcher{Chooser: f.resolver},
		Resolver:   f.resolver,
		Lifecycle:  f.lifecycle,
		Runtime:    runtime,
		Out:        f.out,
	}

	return f
}

func TestSelect(t *testing.T) {
	Convey("Given a registry of two providers", t, func() {
		f := newFixture(config.Runtime{})
		registry := f.router.Registry

		Convey("A complete scripted invocation wins over everything else", func() {
			s, err := Select(registry, Invocation{
				DownloadSeries: "Dark", Site: "1", Index: "0", Season: "1", Episodes: "1-3",
				Global: true, Providers: []string{"ab_search"},
			})

			So(err, ShouldBeNil)
			So(s.Path, ShouldEqual, Scripted)
			So(s.Descriptor.Alias, ShouldEqual, "cde_search")
			So(s.Request.Query.MustGet(), ShouldEqual, "Dark")
			index, _ := s.Request.Direct.MustGet().Index()
			So(index, ShouldEqual, "0")
			So(s.Request.Overrides.MustGet().Episode.MustGet(), ShouldEqual, "1-3")
		})

		Convey("A partial scripted invocation is a configuration error", func() {
			_, err := Select(registry, Invocation{DownloadSeries: "Dark", Site: "0"})
			So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
		})

		Convey("An invalid site index is a configuration error", func() {
			for _, site := range []string{"2", "-1", "x"} {
				_, err := Select(registry, Invocation{DownloadSeries: "Dark", Site: site, Index: "0", Season: "1", Episodes: "1"})
				So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
			}
		})

		Convey("Global comes before a provider flag", func() {
			s, err := Select(registry, Invocation{Global: true, Providers: []string{"ab_search"}})
			So(err, ShouldBeNil)
			So(s.Path, ShouldEqual, Global)
		})

		Convey("One provider flag selects that provider with the query", func() {
			s, err := Select(registry, Invocation{Providers: []string{"ab_search"}, Search: mo.Some("dark"), JSON: true})
			So(err, ShouldBeNil)
			So(s.Path, ShouldEqual, Named)
			So(s.Descriptor.Name, ShouldEqual, "ab")
			So(s.Request.DatabaseOnly, ShouldBeTrue)
			So(s.Request.Query.MustGet(), ShouldEqual, "dark")
		})

		Convey("Two provider flags are a configuration error", func() {
			_, err := Select(registry, Invocation{Providers: []string{"ab_search", "cde_search"}})
			So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
		})

		Convey("Nothing selected is interactive", func() {
			s, err := Select(registry, Invocation{})
			So(err, ShouldBeNil)
			So(s.Path, ShouldEqual, Interactive)
		})
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given a one-shot session", t, func() {
		f := newFixture(config.Runtime{})

		Convey("A scripted download dispatches without prompting", func() {
			err := f.router.Run(ctx, Invocation{DownloadSeries: "Dark", Site: "0", Index: "1", Season: "2", Episodes: "*"})

			So(err, ShouldBeNil)
			So(f.sites["ab"].processed, ShouldHaveLength, 1)
			So(f.sites["ab"].processed[0].Season.MustGet(), ShouldEqual, "2")
			So(f.resolver.offered, ShouldBeNil)
			So(f.lifecycle.relaunches, ShouldEqual, 0)
			So(f.lifecycle.exits, ShouldBeEmpty)
		})

		Convey("A configuration error dispatches nothing", func() {
			err := f.router.Run(ctx, Invocation{DownloadSeries: "Dark", Site: "9", Index: "0", Season: "1", Episodes: "1"})

			So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
			So(f.sites["ab"].processed, ShouldBeEmpty)
			So(f.sites["cde"].processed, ShouldBeEmpty)
		})

		Convey("The interactive path offers providers in registry order", func() {
			f.resolver.provider = mo.Some(1)
			f.resolver.result = mo.Some(0)

			err := f.router.Run(ctx, Invocation{Search: mo.Some("dark")})

			So(err, ShouldBeNil)
			So(f.resolver.offered, ShouldResemble, []choice.Option{
				{Label: "Ab", Category: provider.Other},
				{Label: "Cde", Category: provider.Other},
			})
			So(f.sites["cde"].processed, ShouldHaveLength, 1)
		})

		Convey("Cancelling the provider choice exits cleanly", func() {
			err := f.router.Run(ctx, Invocation{})

			So(err, ShouldBeNil)
			So(f.lifecycle.exits, ShouldResemble, []int{0})
			So(f.resolver.notified, ShouldResemble, []string{choice.CancelMessage})
		})

		Convey("Database-only runs print the results as JSON", func() {
			err := f.router.Run(ctx, Invocation{Providers: []string{"ab_search"}, Search: mo.Some("dark"), JSON: true})
			So(err, ShouldBeNil)

			var items []media.Item
			So(json.Unmarshal(f.out.Bytes(), &items), ShouldBeNil)
			So(items, ShouldHaveLength, 2)
			So(items[1].Name, ShouldEqual, "Dark Matter")
			So(items[1].Kind, ShouldEqual, media.Series)
		})

		Convey("A failed dispatch is returned", func() {
			f.resolver.result = mo.Some(0)
			f.sites["ab"].fail = errors.New("no stream found")

			err := f.router.Run(ctx, Invocation{Providers: []string{"ab_search"}, Search: mo.Some("dark")})

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "no stream found")
			So(f.lifecycle.exits, ShouldBeEmpty)
		})

		Convey("Running out of retries is not a failure", func() {
			f.router.Dispatcher.MaxRetries = 1
			f.sites["ab"].items = nil

			err := f.router.Run(ctx, Invocation{Providers: []string{"ab_search"}, Search: mo.Some("dark")})

			So(err, ShouldBeNil)
			So(f.resolver.notified, ShouldContain, "Nothing matching was found for: dark")
		})

		Convey("A global search dispatches to the owning provider", func() {
			f.resolver.result = mo.Some(0)

			err := f.router.Run(ctx, Invocation{Global: true, Search: mo.Some("darkwing duck")})

			So(err, ShouldBeNil)
			So(f.sites["cde"].processed, ShouldHaveLength, 1)
		})

		Convey("A provider panic forces exit with 1", func() {
			f.resolver.result = mo.Some(0)
			f.sites["ab"].explode = true

			err := f.router.Run(ctx, Invocation{Providers: []string{"ab_search"}, Search: mo.Some("dark")})

			So(err, ShouldBeNil)
			So(f.lifecycle.exits, ShouldResemble, []int{1})
		})

		Convey("A panic forces exit with 1", func() {
			f.router.Resolver = nil

			err := f.router.Run(ctx, Invocation{})

			So(err, ShouldBeNil)
			So(f.lifecycle.exits, ShouldResemble, []int{1})
		})
	})

	Convey("Given a session kept open", t, func() {
		f := newFixture(config.Runtime{KeepOpen: true})

		Convey("A completed run relaunches", func() {
			f.resolver.result = mo.Some(0)

			err := f.router.Run(ctx, Invocation{Providers: []string{"ab_search"}, Search: mo.Some("dark")})

			So(err, ShouldBeNil)
			So(f.lifecycle.relaunches, ShouldEqual, 1)
			So(f.lifecycle.exits, ShouldBeEmpty)
		})

		Convey("A provider panic exits with 1 instead of relaunching", func() {
			f.resolver.result = mo.Some(0)
			f.sites["ab"].explode = true

			err := f.router.Run(ctx, Invocation{Providers: []string{"ab_search"}, Search: mo.Some("dark")})

			So(err, ShouldBeNil)
			So(f.lifecycle.relaunches, ShouldEqual, 0)
			So(f.lifecycle.exits, ShouldResemble, []int{1})
		})

		Convey("A cancelled run relaunches back to the menu", func() {
			err := f.router.Run(ctx, Invocation{})

			So(err, ShouldBeNil)
			So(f.lifecycle.relaunches, ShouldEqual, 1)
		})

		Convey("A cancelled run on the chat front-end exits instead", func() {
			f.router.Runtime.AltFrontEnd = true

			err := f.router.Run(ctx, Invocation{})

			So(err, ShouldBeNil)
			So(f.lifecycle.relaunches, ShouldEqual, 0)
			So(f.lifecycle.exits, ShouldResemble, []int{0})
		})
	})
}
