// Package notify delivers admin notifications over email and chat.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Message is a plain-text notification
type Message struct {
	Subject string
	Body    string
	// ReplyTo is the address replies should go to, if any
	ReplyTo string
}

// Notifier delivers a message to one channel
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// Multi fans a message out to every notifier. All notifiers are attempted;
// the returned error joins the individual failures.
type Multi []Notifier

// Name implements Notifier
func (m Multi) Name() string {
	return "multi"
}

// Notify implements Notifier
func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes notifications to the log. It stands in for email when
// SMTP is not configured.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notify").Logger()}
}

// Name implements Notifier
func (n *LogNotifier) Name() string {
	return "log"
}

// Notify implements Notifier
func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	n.log.Info().
		Str("subject", msg.Subject).
		Str("reply_to", msg.ReplyTo).
		Int("body_length", len(msg.Body)).
		Msg("Notification not delivered, no mail transport configured")
	return nil
}
