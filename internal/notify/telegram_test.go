package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/litescript/nattklar/internal/events"
)

type fakeBot struct {
	sent []tgbotapi.MessageConfig
	fail map[string]bool
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	for marker := range b.fail {
		if strings.Contains(msg.Text, marker) {
			return tgbotapi.Message{}, errors.New("bad request")
		}
	}
	b.sent = append(b.sent, msg)
	return tgbotapi.Message{MessageID: len(b.sent)}, nil
}

func polar(day int) events.NightEvent {
	return events.NightEvent{
		When:             time.Date(2024, 10, day, 18, 0, 0, 0, time.UTC),
		Type:             events.TypePolarLight,
		Title:            "High polar light activity",
		ShortDescription: "High polar light activity expected (Kp 4.67)!",
	}
}

func TestFormat(t *testing.T) {
	got := Format(polar(20))
	want := "*High polar light activity*\n_2024\\-10\\-20 20:00_\nHigh polar light activity expected \\(Kp 4\\.67\\)\\!"
	if got != want {
		t.Errorf("Format =\n%q\nwant\n%q", got, want)
	}
}

func TestNotify(t *testing.T) {
	bot := &fakeBot{}
	tg := newTelegram(bot, -1001, nil)

	if err := tg.Notify(context.Background(), []events.NightEvent{polar(19), polar(20)}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(bot.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(bot.sent))
	}
	for _, m := range bot.sent {
		if m.ChatID != -1001 || m.ParseMode != "MarkdownV2" {
			t.Errorf("message = chat %d mode %q", m.ChatID, m.ParseMode)
		}
	}
}

func TestNotifyContinuesAfterFailure(t *testing.T) {
	bot := &fakeBot{fail: map[string]bool{"2024\\-10\\-19": true}}
	tg := newTelegram(bot, 1, nil)

	err := tg.Notify(context.Background(), []events.NightEvent{polar(19), polar(20)})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(bot.sent) != 1 {
		t.Errorf("sent %d messages, want 1", len(bot.sent))
	}
}

func TestPolarLightOnly(t *testing.T) {
	bot := &fakeBot{}
	hook := PolarLightOnly(newTelegram(bot, 1, nil))

	meteor := events.NightEvent{When: time.Date(2024, 10, 21, 22, 0, 0, 0, time.UTC), Type: "meteor shower", Title: "Orionids"}
	hook(context.Background(), []events.NightEvent{meteor})
	if len(bot.sent) != 0 {
		t.Errorf("non-polar event sent")
	}

	hook(context.Background(), []events.NightEvent{meteor, polar(20)})
	if len(bot.sent) != 1 {
		t.Errorf("sent %d messages, want 1", len(bot.sent))
	}
}
