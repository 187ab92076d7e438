// Package telegram is the chat front-end: every choice is asked in a
// Telegram chat and answered by the next message the operator sends there.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/streamscout/streamscout/network"
)

// APIBase is the Bot API endpoint.
const APIBase = "https://api.telegram.org"

// Chat identifies where a message was sent.
type Chat struct {
	ID int64 `json:"id"`
}

// Message is an incoming chat message.
type Message struct {
	Text string `json:"text"`
	Chat Chat   `json:"chat"`
}

// Update is one entry of getUpdates.
type Update struct {
	ID      int64    `json:"update_id"`
	Message *Message `json:"message,omitempty"`
}

// Bot talks to the Bot API with a single token.
type Bot struct {
	token      string
	base       string
	httpClient *http.Client
}

// NewBot returns a client for token. A nil httpClient uses network.Client.
func NewBot(token string, httpClient *http.Client) *Bot {
	if httpClient == nil {
		httpClient = network.Client
	}

	return &Bot{token: token, base: APIBase, httpClient: httpClient}
}

// SendMessage posts text to chatID.
func (b *Bot) SendMessage(ctx context.Context, chatID, text string) error {
	return b.call(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	}, nil)
}

// Updates long-polls for updates after offset, waiting at most timeout.
func (b *Bot) Updates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	var updates []Update

	err := b.call(ctx, "getUpdates", map[string]any{
		"offset":          offset,
		"timeout":         int(timeout.Seconds()),
		"allowed_updates": []string{"message"},
	}, &updates)

	return updates, err
}

func (b *Bot) call(ctx context.Context, method string, payload, result any) error {
	url := fmt.Sprintf("%s/bot%s/%s", b.base, b.token, method)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		OK          bool            `json:"ok"`
		Description string          `json:"description"`
		Result      json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	if !envelope.OK {
		if envelope.Description != "" {
			return fmt.Errorf("telegram error: %s", envelope.Description)
		}
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	if result == nil || len(envelope.Result) == 0 {
		return nil
	}

	return json.Unmarshal(envelope.Result, result)
}
