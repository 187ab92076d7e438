package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/streamscout/streamscout/auth"
	"github.com/streamscout/streamscout/choice"
	"github.com/streamscout/streamscout/config"
	"github.com/streamscout/streamscout/filesystem"
	"github.com/streamscout/streamscout/key"
	"github.com/streamscout/streamscout/lifecycle"
	"github.com/zalando/go-keyring"
)

type answeringResolver struct {
	choice.Resolver
	notified []string
}

func (a *answeringResolver) Ask(context.Context, string) (string, bool, error) {
	return "2", true, nil
}

func (a *answeringResolver) Notify(_ context.Context, message string) {
	a.notified = append(a.notified, message)
}

func TestForwarder(t *testing.T) {
	Convey("Given a forwarder", t, func() {
		ctx := context.Background()
		f := &forwarder{}

		Convey("Without a resolver questions go unanswered", func() {
			answer, ok, err := f.Ask(ctx, "Season?")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
			So(answer, ShouldBeEmpty)
			f.Notify(ctx, "dropped")
		})

		Convey("With a resolver questions reach it", func() {
			resolver := &answeringResolver{}
			f.resolver = resolver

			answer, ok, err := f.Ask(ctx, "Season?")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(answer, ShouldEqual, "2")

			f.Notify(ctx, "done")
			So(resolver.notified, ShouldResemble, []string{"done"})
		})
	})
}

func TestSessionArg(t *testing.T) {
	Convey("sessionArg", t, func() {
		So(sessionArg(nil).IsAbsent(), ShouldBeTrue)
		So(sessionArg([]string{"bot-42"}).MustGet(), ShouldEqual, "bot-42")
	})
}

func TestNewResolver(t *testing.T) {
	Convey("Given a lifecycle controller", t, func() {
		filesystem.SetMemMapFs()
		keyring.MockInit()
		controller := lifecycle.New(0)

		Convey("The console is used by default", func() {
			resolver, err := newResolver(controller, config.Runtime{}, mo.None[string]())
			So(err, ShouldBeNil)
			_, ok := resolver.(*choice.Console)
			So(ok, ShouldBeTrue)
		})

		Convey("The Telegram front-end needs a token", func() {
			viper.Set(key.FrontendTelegramToken, "")
			_, err := newResolver(controller, config.Runtime{AltFrontEnd: true}, mo.None[string]())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "frontend token")
		})

		Convey("The Telegram front-end needs a chat", func() {
			So(auth.SetToken("123:abc"), ShouldBeNil)
			viper.Set(key.FrontendTelegramChatID, "")

			_, err := newResolver(controller, config.Runtime{AltFrontEnd: true}, mo.None[string]())
			So(errors.Is(err, errNoChat), ShouldBeTrue)
		})
	})
}

func TestTelegramToken(t *testing.T) {
	Convey("Given a keyring", t, func() {
		keyring.MockInit()

		Convey("The configured token wins", func() {
			So(auth.SetToken("from-keyring"), ShouldBeNil)
			viper.Set(key.FrontendTelegramToken, "from-config")
			defer viper.Set(key.FrontendTelegramToken, "")

			token, err := telegramToken()
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "from-config")
		})

		Convey("The keyring is the fallback", func() {
			So(auth.SetToken("from-keyring"), ShouldBeNil)
			viper.Set(key.FrontendTelegramToken, "")

			token, err := telegramToken()
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "from-keyring")
		})
	})
}
