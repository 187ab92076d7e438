package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamscout/streamscout/media"
)

type fakeProvider struct {
	Store
	meta    Metadata
	invalid bool
	panics  bool
}

func (f *fakeProvider) Search(_ context.Context, query string, _ Extras) (int, error) {
	return f.Replace([]*media.Item{{Name: query}}), nil
}

func (f *fakeProvider) ProcessSelection(context.Context, *media.Item, media.Overrides, Extras) error {
	return nil
}

func (f *fakeProvider) Metadata() Metadata {
	return f.meta
}

func (f *fakeProvider) Validate() error {
	if f.panics {
		panic("validate exploded")
	}
	if f.invalid {
		return ErrNoSearch
	}
	return nil
}

func candidate(name string, index, priority int) Candidate {
	return Candidate{
		Name:   name,
		Origin: "test",
		Load: func() (Provider, error) {
			return &fakeProvider{meta: Metadata{Index: mo.Some(index), Priority: mo.Some(priority)}}, nil
		},
	}
}

func aliases(r *Registry) []string {
	return lo.Map(r.Descriptors(), func(d *Descriptor, _ int) string { return d.Alias })
}

func TestBuild(t *testing.T) {
	Convey("Given discovered candidates", t, func() {
		Convey("They are ordered by index, then priority, then discovery order", func() {
			registry, errs := Build([]Candidate{
				candidate("c", 1, 5),
				candidate("a", 0, 0),
				candidate("d", 1, 5),
				candidate("b", 1, 0),
			}, nil)

			So(errs, ShouldBeEmpty)
			So(aliases(registry), ShouldResemble, []string{"a_search", "b_search", "c_search", "d_search"})
		})

		Convey("Missing metadata takes the defaults", func() {
			registry, _ := Build([]Candidate{
				{Name: "plain", Load: func() (Provider, error) { return &fakeProvider{}, nil }},
				candidate("ranked", 3, 0),
			}, nil)

			So(aliases(registry), ShouldResemble, []string{"ranked_search", "plain_search"})

			d, ok := registry.Lookup("plain_search")
			So(ok, ShouldBeTrue)
			So(d.SortIndex, ShouldEqual, DefaultSortIndex)
			So(d.Priority, ShouldEqual, 0)
			So(d.Category, ShouldEqual, Other)
			So(d.DisplayName, ShouldEqual, "Plain")
		})

		Convey("Declared metadata is kept", func() {
			registry, _ := Build([]Candidate{{
				Name: "animeunity",
				Load: func() (Provider, error) {
					return &fakeProvider{meta: Metadata{
						Index:       mo.Some(1),
						Category:    mo.Some(Anime),
						DisplayName: mo.Some("AnimeUnity"),
					}}, nil
				},
			}}, nil)

			d, _ := registry.At(0)
			So(d.Category, ShouldEqual, Anime)
			So(d.DisplayName, ShouldEqual, "AnimeUnity")
			So(d.SortIndex, ShouldEqual, 1)
		})

		Convey("Excluded candidates are never loaded", func() {
			loaded := false
			registry, errs := Build([]Candidate{
				candidate("kept", 0, 0),
				{Name: "guardaserie", Load: func() (Provider, error) {
					loaded = true
					return &fakeProvider{}, nil
				}},
			}, []string{"guardaserie"})

			So(errs, ShouldBeEmpty)
			So(loaded, ShouldBeFalse)
			So(aliases(registry), ShouldResemble, []string{"kept_search"})
		})

		Convey("Load failures are reported and skipped", func() {
			registry, errs := Build([]Candidate{
				{Name: "broken", Load: func() (Provider, error) { return nil, errors.New("syntax error") }},
				candidate("fine", 0, 0),
			}, nil)

			So(errs, ShouldHaveLength, 1)
			So(errs[0].Error(), ShouldContainSubstring, "broken")
			So(registry.Len(), ShouldEqual, 1)
		})

		Convey("A panicking candidate is reported and skipped", func() {
			var (
				registry *Registry
				errs     []error
			)
			So(func() {
				registry, errs = Build([]Candidate{
					{Name: "broken", Load: func() (Provider, error) { panic("boom") }},
					{Name: "moody", Load: func() (Provider, error) { return &fakeProvider{panics: true}, nil }},
					candidate("ok", 0, 0),
				}, nil)
			}, ShouldNotPanic)

			So(errs, ShouldHaveLength, 2)
			So(errs[0].Error(), ShouldContainSubstring, "load broken: panic: boom")
			So(errs[1].Error(), ShouldContainSubstring, "moody: panic")
			So(aliases(registry), ShouldResemble, []string{"ok_search"})
		})

		Convey("Modules without a search entry point are skipped", func() {
			registry, errs := Build([]Candidate{
				{Name: "nosearch", Load: func() (Provider, error) { return &fakeProvider{invalid: true}, nil }},
			}, nil)

			So(registry.Len(), ShouldEqual, 0)
			So(errs, ShouldHaveLength, 1)
			So(errors.Is(errs[0], ErrNoSearch), ShouldBeTrue)
		})

		Convey("Aliases stay unique", func() {
			registry, errs := Build([]Candidate{candidate("twin", 0, 0), candidate("twin", 1, 0)}, nil)

			So(registry.Len(), ShouldEqual, 1)
			So(errs, ShouldHaveLength, 1)
			So(errors.Is(errs[0], ErrDuplicateAlias), ShouldBeTrue)
		})

		Convey("No candidates is a valid, empty registry", func() {
			registry, errs := Build(nil, nil)
			So(errs, ShouldBeEmpty)
			So(registry.Len(), ShouldEqual, 0)
			So(registry.Aliases(), ShouldBeEmpty)
		})
	})
}

func TestRegistryLookup(t *testing.T) {
	Convey("Given a registry", t, func() {
		registry, _ := Build([]Candidate{candidate("b", 0, 0), candidate("a", 1, 0)}, nil)

		Convey("Positions follow presentation order", func() {
			d, ok := registry.AtString("1")
			So(ok, ShouldBeTrue)
			So(d.Alias, ShouldEqual, "a_search")
		})

		Convey("Invalid positions are rejected", func() {
			_, ok := registry.AtString("9")
			So(ok, ShouldBeFalse)
			_, ok = registry.AtString("x")
			So(ok, ShouldBeFalse)
		})

		Convey("Aliases are listed lexically", func() {
			So(registry.Aliases(), ShouldResemble, []string{"a_search", "b_search"})
		})

		Convey("Unknown aliases are not found", func() {
			_, ok := registry.Lookup("kek")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDiscover(t *testing.T) {
	Convey("Given finders", t, func() {
		good := func() ([]Candidate, error) { return []Candidate{candidate("x", 0, 0)}, nil }
		bad := func() ([]Candidate, error) { return nil, errors.New("providers directory not found") }

		Convey("A failing finder does not hide the others", func() {
			found, err := Discover(bad, good)
			So(err, ShouldNotBeNil)
			So(lo.Map(found, func(c Candidate, _ int) string { return c.Name }), ShouldContain, "x")
		})

		Convey("Load tolerates a failing finder", func() {
			registry := Load(nil, bad)
			So(registry, ShouldNotBeNil)
		})
	})
}

func TestRegister(t *testing.T) {
	Convey("Registering the same built-in twice panics", t, func() {
		factory := func() (Provider, error) { return &fakeProvider{}, nil }
		Register("builtin-test", factory)
		So(func() { Register("builtin-test", factory) }, ShouldPanic)
		So(lo.Map(Builtins(), func(c Candidate, _ int) string { return c.Name }), ShouldContain, "builtin-test")
	})
}

func TestHandlers(t *testing.T) {
	Convey("Given handlers for films and series", t, func() {
		var called string
		h := Handlers{
			Film: func(context.Context, *media.Item, Extras) error {
				called = "film"
				return nil
			},
			Series: func(_ context.Context, _ *media.Item, o media.Overrides, _ Extras) error {
				called = "series:" + o.Season.OrElse("ask")
				return nil
			},
		}
		ctx := context.Background()

		Convey("Series go to the series routine with the overrides", func() {
			err := h.Process(ctx, &media.Item{Kind: media.Series}, media.NewOverrides("2", ""), Extras{})
			So(err, ShouldBeNil)
			So(called, ShouldEqual, "series:2")
		})

		Convey("Absent overrides mean ask", func() {
			So(h.Process(ctx, &media.Item{Kind: media.Series}, media.Overrides{}, Extras{}), ShouldBeNil)
			So(called, ShouldEqual, "series:ask")
		})

		Convey("Films go to the film routine", func() {
			So(h.Process(ctx, &media.Item{Kind: media.Movie}, media.Overrides{}, Extras{}), ShouldBeNil)
			So(called, ShouldEqual, "film")
		})

		Convey("Other kinds without a title routine are unsupported", func() {
			err := h.Process(ctx, &media.Item{Kind: media.Other}, media.Overrides{}, Extras{})
			So(errors.Is(err, ErrUnsupportedKind), ShouldBeTrue)
		})
	})
}

func TestParseCategory(t *testing.T) {
	Convey("Category declarations are parsed", t, func() {
		So(ParseCategory("anime"), ShouldEqual, Anime)
		So(ParseCategory("film_serie"), ShouldEqual, FilmOrSeries)
		So(ParseCategory("serie"), ShouldEqual, Series)
		So(ParseCategory("film"), ShouldEqual, Film)
		So(ParseCategory("torrent"), ShouldEqual, Other)
		So(FilmOrSeries.String(), ShouldEqual, "film_serie")
	})
}
