package cmd

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamscout/streamscout/history"
	"github.com/streamscout/streamscout/key"
	"github.com/streamscout/streamscout/media"
	"github.com/streamscout/streamscout/where"
)

func TestParseValue(t *testing.T) {
	Convey("Given configuration keys of every type", t, func() {
		Convey("Integers are parsed", func() {
			v, err := parseValue(key.DispatchMaxRetries, []string{"3"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 3)

			_, err = parseValue(key.DispatchMaxRetries, []string{"three"})
			So(err, ShouldNotBeNil)
		})

		Convey("Booleans are parsed", func() {
			v, err := parseValue(key.SessionKeepOpen, []string{"true"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, true)
		})

		Convey("Lists keep every word", func() {
			v, err := parseValue(key.DownloadsAudioLanguages, []string{"ita", "eng"})
			So(err, ShouldBeNil)
			So(v, ShouldResemble, []string{"ita", "eng"})
		})

		Convey("Unknown keys suggest the closest one", func() {
			_, err := parseValue("session.keep_opn", []string{"true"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, key.SessionKeepOpen)
		})

		Convey("A value is required", func() {
			_, err := parseValue(key.LogsLevel, nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestEnvNames(t *testing.T) {
	Convey("Every configuration key has a prefixed variable", t, func() {
		names := envNames()
		So(names, ShouldContain, "STREAMSCOUT_SESSION_KEEP_OPEN")
		So(names, ShouldContain, "STREAMSCOUT_FRONTEND_TELEGRAM_TOKEN")
		So(names, ShouldContain, where.EnvConfigPath)
	})
}

func TestReflectSchema(t *testing.T) {
	Convey("The schema describes the JSON output", t, func() {
		items, err := json.Marshal(reflectSchema(false))
		So(err, ShouldBeNil)
		So(string(items), ShouldContainSubstring, `"name"`)
		So(string(items), ShouldContainSubstring, `"film"`)

		records, err := json.Marshal(reflectSchema(true))
		So(err, ShouldBeNil)
		So(string(records), ShouldContainSubstring, `"provider"`)
	})
}

func TestWriteHistory(t *testing.T) {
	Convey("Given history records", t, func() {
		var out bytes.Buffer

		Convey("An empty history says so", func() {
			writeHistory(&out, nil)
			So(out.String(), ShouldContainSubstring, "No history yet")
		})

		Convey("Records are printed one per line", func() {
			at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
			writeHistory(&out, []*history.Record{
				{Provider: "alpha_search", Item: &media.Item{Name: "Dark"}, Season: "1", At: at},
				{Provider: "beta_search", Item: &media.Item{Name: "Heat"}, At: at},
			})
			So(out.String(), ShouldEqual, "2026-01-02 03:04:05 [alpha_search] Dark S1 E*\n2026-01-02 03:04:05 [beta_search] Heat\n")
		})
	})
}
