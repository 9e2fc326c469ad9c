package telegram

import (
	"fmt"

	"staff-rota/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier posts rota publication announcements to a staff channel. It is
// the messaging-side collaborator of the rota engine: one narrow method,
// delivery details stay here.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewNotifier(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Notifier{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// AnnouncePublish tells the staff channel a rota week is live.
func (n *Notifier) AnnouncePublish(week *models.RotaWeek, shiftCount int) error {
	text := fmt.Sprintf("Rota for week of %s is published (%d shifts). Check your shifts!",
		week.WeekStart.Format("Mon 02 Jan"), shiftCount)

	msg := tgbotapi.NewMessage(n.chatID, text)
	_, err := n.bot.Send(msg)
	return err
}
