package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

type fakeMailer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeMailer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

type fakeBot struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

type failing struct{}

func (failing) Name() string                          { return "failing" }
func (failing) Notify(context.Context, Message) error { return errors.New("boom") }

func TestEmailNotifier_Headers(t *testing.T) {
	mailer := &fakeMailer{}
	n := &EmailNotifier{sender: mailer, from: "site@example.com", to: "admin@example.com"}

	err := n.Notify(context.Background(), Message{
		Subject: "New Contact Form Message: Hello",
		Body:    "Hi there",
		ReplyTo: "ada@example.com",
	})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(mailer.sent))
	}

	m := mailer.sent[0]
	checks := map[string]string{
		"From":     "site@example.com",
		"To":       "admin@example.com",
		"Subject":  "New Contact Form Message: Hello",
		"Reply-To": "ada@example.com",
	}
	for header, want := range checks {
		got := m.GetHeader(header)
		if len(got) != 1 || got[0] != want {
			t.Errorf("Expected %s %q, got %v", header, want, got)
		}
	}
}

func TestTelegramNotifier_PlainText(t *testing.T) {
	bot := &fakeBot{}
	n := &TelegramNotifier{bot: bot, chatID: 42}

	if err := n.Notify(context.Background(), Message{Subject: "Subj", Body: "*not markdown*", ReplyTo: "a@b.c"}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if len(bot.sent) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(bot.sent))
	}
	msg := bot.sent[0]
	if msg.ChatID != 42 {
		t.Errorf("Expected chat 42, got %d", msg.ChatID)
	}
	if msg.ParseMode != "" {
		t.Errorf("Expected no parse mode, got %q", msg.ParseMode)
	}
	if !strings.Contains(msg.Text, "*not markdown*") || !strings.Contains(msg.Text, "a@b.c") {
		t.Errorf("Unexpected text %q", msg.Text)
	}
}

func TestMulti_AttemptsAll(t *testing.T) {
	mailer := &fakeMailer{}
	email := &EmailNotifier{sender: mailer, from: "a@example.com", to: "b@example.com"}
	multi := Multi{failing{}, email, NewLogNotifier(zerolog.Nop())}

	err := multi.Notify(context.Background(), Message{Subject: "s", Body: "b"})
	if err == nil || !strings.Contains(err.Error(), "failing") {
		t.Errorf("Expected joined error naming the failing notifier, got %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("Expected email to be sent despite earlier failure, got %d", len(mailer.sent))
	}
}
