package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/streamscout/streamscout/choice"
	"github.com/streamscout/streamscout/log"
	"github.com/streamscout/streamscout/media"
)

// Back is the reply that cancels the pending choice.
const Back = "back"

// DefaultPollTimeout is used for non-positive poll timeouts.
const DefaultPollTimeout = 30 * time.Second

// Settings configures a Resolver.
type Settings struct {
	ChatID      string
	Session     string
	PollTimeout time.Duration
}

// Resolver asks every choice in a chat. Replies are collected by Poll,
// which must be running for any question to be answered.
type Resolver struct {
	bot      *Bot
	settings Settings
	sessions *Sessions
	replies  chan string
}

var _ choice.Resolver = (*Resolver)(nil)

// NewResolver returns a resolver for the chat and session in settings.
func NewResolver(bot *Bot, settings Settings, sessions *Sessions) *Resolver {
	if settings.PollTimeout <= 0 {
		settings.PollTimeout = DefaultPollTimeout
	}

	return &Resolver{
		bot:      bot,
		settings: settings,
		sessions: sessions,
		replies:  make(chan string, 16),
	}
}

// Poll long-polls the bot until ctx is done, forwarding text messages from
// the configured chat.
func (r *Resolver) Poll(ctx context.Context) {
	var offset int64

	for ctx.Err() == nil {
		updates, err := r.bot.Updates(ctx, offset, r.settings.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithField("frontend", "telegram").Warnf("poll: %s", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		for _, u := range updates {
			offset = max(offset, u.ID+1)

			if u.Message == nil || strconv.FormatInt(u.Message.Chat.ID, 10) != r.settings.ChatID {
				continue
			}

			select {
			case r.replies <- strings.TrimSpace(u.Message.Text):
			case <-ctx.Done():
				return
			}
		}
	}
}

// ChooseProvider sends the numbered provider list and waits for a number.
func (r *Resolver) ChooseProvider(ctx context.Context, options []choice.Option) (int, bool, error) {
	lines := lo.Map(options, func(o choice.Option, i int) string {
		return fmt.Sprintf("%d: %s", i, o.Label)
	})

	question := fmt.Sprintf("%s\n\nSelect provider:\n%s\n\nType '%s' to exit.", choice.PlainLegend(), strings.Join(lines, "\n"), Back)

	return r.pick(ctx, question, len(options))
}

// AskQuery asks for the search terms.
func (r *Resolver) AskQuery(ctx context.Context, provider string) (string, bool, error) {
	return r.Ask(ctx, fmt.Sprintf("Search %s:\n\nType '%s' to exit.", provider, Back))
}

// ChooseResult sends the result table as numbered lines and waits for a number.
func (r *Resolver) ChooseResult(ctx context.Context, t media.Table) (int, bool, error) {
	lines := lo.Map(t.Rows, func(row []string, _ int) string {
		return strings.Join(row, " | ")
	})

	question := fmt.Sprintf("%s\n%s\n\nType the number to choose or '%s' to exit.", strings.Join(t.Columns, " | "), strings.Join(lines, "\n"), Back)

	return r.pick(ctx, question, len(t.Rows))
}

// Ask sends question and returns the reply.
func (r *Resolver) Ask(ctx context.Context, question string) (string, bool, error) {
	reply, err := r.ask(ctx, question)
	if err != nil {
		return "", false, err
	}

	if strings.EqualFold(reply, Back) {
		return "", false, r.cancel()
	}

	return reply, true, nil
}

// Notify sends message, logging delivery failures.
func (r *Resolver) Notify(ctx context.Context, message string) {
	if err := r.bot.SendMessage(ctx, r.settings.ChatID, message); err != nil {
		log.WithField("frontend", "telegram").Errorf("notify: %s", err)
	}
}

func (r *Resolver) pick(ctx context.Context, question string, n int) (int, bool, error) {
	reply, ok, err := r.Ask(ctx, question)
	if err != nil || !ok {
		return 0, false, err
	}

	index, err := strconv.Atoi(reply)
	if err != nil || index < 0 || index >= n {
		r.Notify(ctx, "Invalid selection.")
		return 0, false, r.cancel()
	}

	return index, true, nil
}

func (r *Resolver) ask(ctx context.Context, question string) (string, error) {
	if err := r.bot.SendMessage(ctx, r.settings.ChatID, question); err != nil {
		return "", err
	}

	select {
	case reply := <-r.replies:
		return reply, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// cancel ends the session. The caller announces the cancellation.
func (r *Resolver) cancel() error {
	if r.sessions == nil || r.settings.Session == "" {
		return nil
	}

	if err := r.sessions.Delete(r.settings.Session); err != nil {
		return fmt.Errorf("delete session %s: %w", r.settings.Session, err)
	}

	return nil
}
