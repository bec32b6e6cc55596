package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// sendTimeout bounds one provider call.
const sendTimeout = 10 * time.Second

var errNoRecipients = errors.New("email has no recipients")

// ResendSender delivers through the Resend API.
type ResendSender struct {
	emails resend.EmailsSvc
	from   string
	now    func() time.Time
}

// NewResendSender creates a sender for apiKey. from is used when a request has none.
// PRE: apiKey is non-empty
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{emails: resend.NewClient(apiKey).Emails, from: from, now: time.Now}
}

// Send submits one message.
// PRE: req has at least one recipient
// POST: returns the provider message id on acceptance
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if len(req.To) == 0 {
		return SendResult{}, errNoRecipients
	}
	params := &resend.SendEmailRequest{
		From:    req.From,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		Text:    req.Text,
	}
	if params.From == "" {
		params.From = s.from
	}
	if req.Category != "" {
		params.Tags = []resend.Tag{{Name: "category", Value: req.Category}}
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	sent, err := s.emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Warn("email_event", "event", "send_failed", "provider", "resend", "category", req.Category, "error", err)
		return SendResult{}, fmt.Errorf("resend: %w", err)
	}
	slog.Info("email_event", "event", "sent", "provider", "resend", "message_id", sent.Id, "category", req.Category, "recipients", len(req.To))
	return SendResult{MessageID: sent.Id, SentAt: s.now()}, nil
}
