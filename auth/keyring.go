// Package auth stores the chat bot token in the system keyring.
package auth

import (
	"github.com/streamscout/streamscout/constant"
	"github.com/zalando/go-keyring"
)

const user = "telegram-bot-token"

// SetToken stores the bot token.
func SetToken(token string) error {
	return keyring.Set(constant.App, user, token)
}

// GetToken reads the bot token.
func GetToken() (string, error) {
	return keyring.Get(constant.App, user)
}

// DeleteToken removes the bot token.
func DeleteToken() error {
	return keyring.Delete(constant.App, user)
}
