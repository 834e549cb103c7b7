// Package telegram sends expiry reminders through the owner's Telegram bot.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/hrtools/rptracker/internal/channel"
	"github.com/hrtools/rptracker/internal/model"
)

const sendTimeout = 10 * time.Second

type Channel struct {
	client *http.Client
}

func New() *Channel {
	return &Channel{
		client: &http.Client{Timeout: sendTimeout},
	}
}

func (c *Channel) Kind() string {
	return channel.KindTelegram
}

func (c *Channel) Configured(settings *model.AccountSettings) bool {
	return settings.TelegramActive()
}

// Send delivers the reminder via the owner's bot token. The bot handle is
// built per call because every owner brings their own token; Offline skips
// the getMe round-trip, the sendMessage call itself still goes out. The HTTP
// client timeout bounds the attempt.
func (c *Channel) Send(ctx context.Context, settings *model.AccountSettings, employee *model.Employee, daysLeft int) error {
	chatID, err := strconv.ParseInt(settings.TelegramChat, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", settings.TelegramChat, err)
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:   settings.TelegramToken,
		Client:  c.client,
		Offline: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build telegram bot: %w", err)
	}

	chat := &tele.Chat{ID: chatID}
	if _, err := bot.Send(chat, renderMessage(employee, daysLeft), &tele.SendOptions{ParseMode: tele.ModeMarkdown}); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

func renderMessage(employee *model.Employee, daysLeft int) string {
	return fmt.Sprintf(`*RP EXPIRY ALERT*

*Urgent - action required!*

*Name:* %s
*QID:* %s
*Nationality:* %s
*Expiry Date:* `+"`%s`"+`
*Days Remaining:* *%d DAYS*

Please process the RP renewal immediately!`,
		employee.FullName, employee.QIDNumber, employee.Nationality,
		employee.ExpiryDate, daysLeft)
}
