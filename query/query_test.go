package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/streamscout/streamscout/filesystem"
	"github.com/streamscout/streamscout/key"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestSuggestMany(t *testing.T) {
	Convey("Given remembered queries", t, func() {
		So(Remember("Dark", 1), ShouldBeNil)
		So(Remember("dark waters", 10), ShouldBeNil)

		Convey("Suggestions are fuzzy matched and ranked", func() {
			So(SuggestMany("dar"), ShouldResemble, []string{"dark waters", "dark"})
			So(Suggest("dar").MustGet(), ShouldEqual, "dark waters")
			So(SuggestMany("zzz"), ShouldBeEmpty)
		})
	})
}

func TestRemember(t *testing.T) {
	Convey("Remembering again raises the rank and refreshes suggestions", t, func() {
		So(Remember("heat", 1), ShouldBeNil)
		So(Remember("heathers", 5), ShouldBeNil)
		So(SuggestMany("hea")[0], ShouldEqual, "heathers")

		So(Remember("HEAT ", 100), ShouldBeNil)
		So(SuggestMany("hea")[0], ShouldEqual, "heat")
	})

	Convey("Blank queries are not remembered", t, func() {
		So(Remember("   ", 1), ShouldBeNil)
		So(SuggestMany(""), ShouldNotContain, "")
	})
}

func TestDisabled(t *testing.T) {
	Convey("Nothing is suggested when suggestions are disabled", t, func() {
		So(Remember("tenet", 1), ShouldBeNil)

		viper.Set(key.SearchShowQuerySuggestions, false)
		defer viper.Set(key.SearchShowQuerySuggestions, true)

		So(SuggestMany("ten"), ShouldBeEmpty)
		So(Suggest("ten").IsAbsent(), ShouldBeTrue)
	})
}

func TestSanitize(t *testing.T) {
	Convey("sanitize trims and lowercases", t, func() {
		So(sanitize("  DARK  "), ShouldEqual, "dark")
	})
}
