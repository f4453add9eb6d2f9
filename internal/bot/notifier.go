package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers timer notifications to the owner chat.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewNotifier(botAPI *tgbotapi.BotAPI, chatID int64) *Notifier {
	return &Notifier{api: botAPI, chatID: chatID}
}

// RequestPermission is granted whenever a chat is configured.
func (n *Notifier) RequestPermission() bool {
	return n.api != nil && n.chatID != 0
}

func (n *Notifier) Notify(title, body string) error {
	msg := tgbotapi.NewMessage(n.chatID, title+"\n"+body)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("telegram notify: %w", err)
	}
	return nil
}
