package notify

import (
	"context"

	"gopkg.in/gomail.v2"
)

// mailSender is the part of *gomail.Dialer the notifier uses
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier sends notifications over SMTP
type EmailNotifier struct {
	sender mailSender
	from   string
	to     string
}

// NewEmailNotifier creates an SMTP notifier delivering to the admin address
func NewEmailNotifier(host string, port int, username, password, from, to string) *EmailNotifier {
	if from == "" {
		from = username
	}
	return &EmailNotifier{
		sender: gomail.NewDialer(host, port, username, password),
		from:   from,
		to:     to,
	}
}

// Name implements Notifier
func (n *EmailNotifier) Name() string {
	return "email"
}

// Notify implements Notifier
func (n *EmailNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.sender.DialAndSend(n.build(msg))
}

func (n *EmailNotifier) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetBody("text/plain", msg.Body)
	return m
}
