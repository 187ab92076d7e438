package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/streamscout/streamscout/auth"
	"github.com/streamscout/streamscout/choice"
	"github.com/streamscout/streamscout/config"
	"github.com/streamscout/streamscout/constant"
	"github.com/streamscout/streamscout/dispatch"
	"github.com/streamscout/streamscout/frontend/telegram"
	"github.com/streamscout/streamscout/history"
	"github.com/streamscout/streamscout/key"
	"github.com/streamscout/streamscout/lifecycle"
	"github.com/streamscout/streamscout/log"
	"github.com/streamscout/streamscout/media"
	"github.com/streamscout/streamscout/provider"
	"github.com/streamscout/streamscout/query"
	"github.com/streamscout/streamscout/router"
	"github.com/streamscout/streamscout/where"
)

// SessionPrefix starts every generated front-end session id.
const SessionPrefix = "session_"

var errNoChat = errors.New("no telegram chat configured")

// forwarder is the prompter handed to provider scripts. Scripts are loaded
// before the resolver exists, so questions go through here.
type forwarder struct {
	resolver choice.Resolver
}

func (f *forwarder) Ask(ctx context.Context, question string) (string, bool, error) {
	if f.resolver == nil {
		return "", false, nil
	}
	return f.resolver.Ask(ctx, question)
}

func (f *forwarder) Notify(ctx context.Context, message string) {
	if f.resolver != nil {
		f.resolver.Notify(ctx, message)
	}
}

// launch wires one run: lifecycle, resolver, dispatcher and router.
func launch(rt config.Runtime, inv router.Invocation, session mo.Option[string]) error {
	controller := lifecycle.New(rt.JoinTimeout)
	defer controller.Shutdown()

	resolver, err := newResolver(controller, rt, session)
	if err != nil {
		return err
	}
	prompt.resolver = resolver

	r := &router.Router{
		Registry:   registry,
		Dispatcher: newDispatcher(resolver, rt),
		Resolver:   resolver,
		Lifecycle:  controller,
		Runtime:    rt,
		Out:        os.Stdout,
	}

	return r.Run(controller.Context(), inv)
}

func newDispatcher(chooser dispatch.Chooser, rt config.Runtime) *dispatch.Dispatcher {
	return &dispatch.Dispatcher{
		Chooser:    chooser,
		MaxRetries: rt.MaxRetries,
		OnSearch: func(q string) {
			if err := query.Remember(q, 1); err != nil {
				log.Warnf("remember query %q: %s", q, err)
			}
		},
		OnDispatch: func(d *provider.Descriptor, item *media.Item, overrides media.Overrides) {
			if !viper.GetBool(key.HistorySaveOnDispatch) {
				return
			}
			if err := history.Save(d.Alias, item, overrides); err != nil {
				log.Warnf("save history: %s", err)
			}
		},
	}
}

// newResolver returns the console surface, or the Telegram one when the
// alternate front-end is enabled. The Telegram poller runs as a lifecycle
// worker and the session is removed on exit.
func newResolver(controller *lifecycle.Controller, rt config.Runtime, session mo.Option[string]) (choice.Resolver, error) {
	if !rt.AltFrontEnd {
		return choice.NewConsole(controller), nil
	}

	token, err := telegramToken()
	if err != nil {
		return nil, err
	}

	chatID := viper.GetString(key.FrontendTelegramChatID)
	if chatID == "" {
		return nil, fmt.Errorf("%w: set %s", errNoChat, key.FrontendTelegramChatID)
	}

	id := session.OrElse(SessionPrefix + uuid.NewString())
	sessions := telegram.NewSessions(where.Sessions())
	if err := sessions.Start(id, chatID); err != nil {
		return nil, fmt.Errorf("start session %s: %w", id, err)
	}

	resolver := telegram.NewResolver(telegram.NewBot(token, nil), telegram.Settings{
		ChatID:      chatID,
		Session:     id,
		PollTimeout: time.Duration(viper.GetInt(key.FrontendPollTimeout)) * time.Second,
	}, sessions)

	controller.Go("telegram-poller", resolver.Poll)
	controller.OnExit(func() {
		if err := sessions.Delete(id); err != nil {
			log.Warnf("delete session %s: %s", id, err)
		}
	})

	log.WithField("session", id).Info("telegram front-end enabled")
	return resolver, nil
}

// telegramToken prefers the configured token over the keyring.
func telegramToken() (string, error) {
	if token := viper.GetString(key.FrontendTelegramToken); token != "" {
		return token, nil
	}

	token, err := auth.GetToken()
	if err != nil {
		return "", fmt.Errorf("no telegram token: set %s or run `%s frontend token`: %w", key.FrontendTelegramToken, constant.App, err)
	}

	return token, nil
}
