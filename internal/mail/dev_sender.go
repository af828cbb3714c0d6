package mail

import (
	"context"
	"log/slog"
)

// DevSender logs messages instead of delivering them. Used in development and
// when no Postmark credentials are configured. The message body (which embeds
// the action-token link) is logged at debug so local flows remain testable.
type DevSender struct {
	Log *slog.Logger
}

// Send logs the message and succeeds.
func (s DevSender) Send(_ context.Context, msg Message) error {
	if s.Log != nil {
		s.Log.Info("mail: dev sender", "to", msg.To, "subject", msg.Subject)
		s.Log.Debug("mail: dev sender body", "html", msg.HTML)
	}
	return nil
}
