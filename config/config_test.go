package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/streamscout/streamscout/filesystem"
	"github.com/streamscout/streamscout/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("downloads.video_workers")
			So(result, ShouldEqual, "downloads_video_workers")
		})

		Convey("Env names carry the application prefix", func() {
			f := Default[key.SessionKeepOpen]
			So(f.Env(), ShouldEqual, "STREAMSCOUT_SESSION_KEEP_OPEN")
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		So(Setup(), ShouldBeNil)

		Reset(func() {
			for name, field := range Default {
				viper.Set(name, field.Value)
			}
		})

		Convey("The runtime snapshot reflects the defaults", func() {
			rt := Load()
			So(rt.KeepOpen, ShouldBeFalse)
			So(rt.AltFrontEnd, ShouldBeFalse)
			So(rt.JoinTimeout, ShouldEqual, 500*time.Millisecond)
			So(rt.Exclude, ShouldBeEmpty)
		})

		Convey("The front-end exclusions apply only with the alternate front-end", func() {
			viper.Set(key.ProvidersExclude, []string{"foo"})
			So(Load().Exclude, ShouldResemble, []string{"foo"})

			viper.Set(key.FrontendTelegram, true)
			rt := Load()
			So(rt.AltFrontEnd, ShouldBeTrue)
			So(rt.Exclude, ShouldContain, "foo")
			So(rt.Exclude, ShouldContain, "guardaserie")
			So(rt.Exclude, ShouldContain, "mostraguarda")
		})

		Convey("A negative retry bound is treated as unbounded", func() {
			viper.Set(key.DispatchMaxRetries, -3)
			So(Load().MaxRetries, ShouldEqual, 0)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given override values", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("Nothing is written when nothing changed", func() {
			So(Apply(nil), ShouldBeNil)
		})

		Convey("Changed values are set", func() {
			err := Apply(map[string]any{key.DownloadsVideoWorkers: 4})
			So(err, ShouldBeNil)
			So(viper.GetInt(key.DownloadsVideoWorkers), ShouldEqual, 4)
			So(Downloads()["video_workers"], ShouldEqual, 4)
		})

		Reset(func() {
			viper.Set(key.DownloadsVideoWorkers, Default[key.DownloadsVideoWorkers].Value)
		})
	})
}
