package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// NoopSender logs instead of delivering. It stands in when no Resend key is configured.
type NoopSender struct {
	now func() time.Time
}

func NewNoopSender() *NoopSender {
	return &NoopSender{now: time.Now}
}

func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	if len(req.To) == 0 {
		return SendResult{}, errNoRecipients
	}
	id := "noop-" + uuid.NewString()
	slog.Info("email_event", "event", "send_skipped", "provider", "noop", "message_id", id,
		"category", req.Category, "subject", req.Subject)
	return SendResult{MessageID: id, SentAt: s.now()}, nil
}
