// Package notify pushes new night events to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/events"
	"github.com/litescript/nattklar/internal/logging"
)

const parseMode = "MarkdownV2"

// sender is the part of *tgbotapi.BotAPI used here.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends event announcements to one chat.
type Telegram struct {
	bot    sender
	chatID int64
	logger *logging.Logger
}

// NewTelegram connects to the bot API with token.
func NewTelegram(token string, chatID int64, logger *logging.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return newTelegram(bot, chatID, logger), nil
}

func newTelegram(bot sender, chatID int64, logger *logging.Logger) *Telegram {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Telegram{bot: bot, chatID: chatID, logger: logger}
}

func escape(s string) string {
	return tgbotapi.EscapeText(parseMode, s)
}

// Format renders an event as a MarkdownV2 message: a bold title, the
// date and time in the home zone, and the short description.
func Format(e events.NightEvent) string {
	local := astro.InOslo(e.When)
	var b strings.Builder
	b.WriteString("*" + escape(e.Title) + "*\n")
	b.WriteString("_" + escape(astro.DateString(local)+" "+astro.TimeOfDay(local)) + "_")
	if e.ShortDescription != "" {
		b.WriteString("\n" + escape(e.ShortDescription))
	}
	return b.String()
}

// Notify sends one message per event. Every event is attempted; the first
// error is returned.
func (t *Telegram) Notify(ctx context.Context, list []events.NightEvent) error {
	var firstErr error
	for _, e := range list {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(t.chatID, Format(e))
		msg.ParseMode = parseMode
		if _, err := t.bot.Send(msg); err != nil {
			t.logger.Error("send %q: %v", e.Title, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("send telegram message: %w", err)
			}
			continue
		}
		t.logger.Info("sent %q to chat %d", e.Title, t.chatID)
	}
	return firstErr
}

// PolarLightOnly returns a hook for events.OnNew that forwards polar light
// alerts to t. Send failures are logged.
func PolarLightOnly(t *Telegram) func(context.Context, []events.NightEvent) {
	return func(ctx context.Context, added []events.NightEvent) {
		var alerts []events.NightEvent
		for _, e := range added {
			if e.IsPolarLight() {
				alerts = append(alerts, e)
			}
		}
		if len(alerts) == 0 {
			return
		}
		if err := t.Notify(ctx, alerts); err != nil {
			t.logger.Warn("polar light notification: %v", err)
		}
	}
}
