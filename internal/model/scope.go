package model

import "fmt"

// Scope identifies who an utterance belongs to.
type Scope struct {
	UserID   string // transport-prefixed, e.g. "telegram_42"
	Username string
	ChatID   int64
}

// TelegramUserID renders a Telegram user ID in scope form.
func TelegramUserID(id int64) string {
	return fmt.Sprintf("telegram_%d", id)
}
