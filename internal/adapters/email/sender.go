// Package email delivers outbound mail: the share link of a saved event is
// announced to the team address.
package email

import (
	"context"
	"time"
)

// SendRequest is one outbound message.
type SendRequest struct {
	To      []string
	From    string // empty uses the sender default
	Subject string
	HTML    string
	Text    string
	// Category tags the message at the provider, e.g. "event_created".
	Category string
}

// SendResult identifies an accepted message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers a message or reports why it could not.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
