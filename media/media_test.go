package media

import (
	"encoding/json"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func sample() []*Item {
	return []*Item{
		{Kind: Series, Name: "Breaking Bad", URL: "https://example.com/bb", Payload: map[string]any{"year": "2008"}},
		{Kind: Movie, Name: "El Camino", URL: "https://example.com/ec", Payload: map[string]any{"year": 2019}},
	}
}

func TestParseKind(t *testing.T) {
	Convey("Provider type strings map onto kinds", t, func() {
		So(ParseKind("tv"), ShouldEqual, Series)
		So(ParseKind("Serie"), ShouldEqual, Series)
		So(ParseKind("film"), ShouldEqual, Movie)
		So(ParseKind(" movie "), ShouldEqual, Movie)
		So(ParseKind("ova"), ShouldEqual, Other)
		So(ParseKind(""), ShouldEqual, Other)
	})
}

func TestResultSet(t *testing.T) {
	Convey("Given a result set", t, func() {
		items := sample()
		results := NewResultSet(items, "year")

		Convey("It keeps order and length", func() {
			So(results.Len(), ShouldEqual, 2)
			first, ok := results.At(0)
			So(ok, ShouldBeTrue)
			So(first.Name, ShouldEqual, "Breaking Bad")
		})

		Convey("Out of range positions are rejected", func() {
			_, ok := results.At(2)
			So(ok, ShouldBeFalse)
			_, ok = results.At(-1)
			So(ok, ShouldBeFalse)
		})

		Convey("Callers cannot mutate the snapshot", func() {
			items[0].Name = "changed"
			got, _ := results.At(0)
			So(got.Name, ShouldEqual, "Breaking Bad")

			got.Payload["year"] = "1999"
			again, _ := results.At(0)
			So(again.Payload["year"], ShouldEqual, "2008")
		})

		Convey("The table projection has one row per item", func() {
			table := results.Table()
			So(table.Columns, ShouldResemble, []string{"#", "Type", "Title", "year"})
			So(table.Rows, ShouldHaveLength, 2)
			So(table.Rows[0], ShouldResemble, []string{"0", "tv", "Breaking Bad", "2008"})
			So(table.Rows[1][3], ShouldEqual, "2019")
		})

		Convey("Long titles are truncated in the projection", func() {
			long := NewResultSet([]*Item{{Name: strings.Repeat("x", CellWidth*2)}})
			So(len([]rune(long.Table().Rows[0][2])), ShouldBeLessThanOrEqualTo, CellWidth)
		})

		Convey("An empty set encodes as an empty list", func() {
			b, err := json.Marshal(ResultSet{})
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "[]")
		})
	})
}

func TestSelector(t *testing.T) {
	Convey("Given a result set", t, func() {
		results := NewResultSet(sample())

		Convey("An index selector resolves against it", func() {
			item, err := IndexSelector("1").Resolve(results)
			So(err, ShouldBeNil)
			So(item.Name, ShouldEqual, "El Camino")
		})

		Convey("A malformed index is an error", func() {
			_, err := IndexSelector("abc").Resolve(results)
			So(err, ShouldNotBeNil)
		})

		Convey("An out of range index is an error", func() {
			_, err := IndexSelector("7").Resolve(results)
			So(err, ShouldNotBeNil)
		})

		Convey("An item selector exposes its item", func() {
			s := ItemSelector(sample()[0])
			item, ok := s.Item()
			So(ok, ShouldBeTrue)
			So(item.URL, ShouldEqual, "https://example.com/bb")
			_, ok = s.Index()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestOverrides(t *testing.T) {
	Convey("Empty flag values are absent overrides", t, func() {
		o := NewOverrides("", " ")
		So(o.Season.IsPresent(), ShouldBeFalse)
		So(o.Episode.IsPresent(), ShouldBeFalse)

		o = NewOverrides("2", "1-5")
		So(o.Season.MustGet(), ShouldEqual, "2")
		So(o.Episode.MustGet(), ShouldEqual, "1-5")
	})
}

func TestItemJSON(t *testing.T) {
	Convey("Items round trip through JSON with their kind by name", t, func() {
		b, err := json.Marshal(sample()[0])
		So(err, ShouldBeNil)
		So(string(b), ShouldContainSubstring, `"type":"tv"`)

		var back Item
		So(json.Unmarshal(b, &back), ShouldBeNil)
		So(back.Kind, ShouldEqual, Series)
		So(back.Payload["year"], ShouldEqual, "2008")
	})
}
