package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	domainEvent "dugout/internal/domain/event"
)

// ShareNotifier emails the share link of a saved event to the team address.
type ShareNotifier struct {
	sender Sender
	from   string
	to     []string
}

// NewShareNotifier returns nil when no recipient is configured, which
// callers treat as notifications disabled.
func NewShareNotifier(sender Sender, from string, to []string) *ShareNotifier {
	var recipients []string
	for _, addr := range to {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if sender == nil || len(recipients) == 0 {
		return nil
	}
	return &ShareNotifier{sender: sender, from: from, to: recipients}
}

// NotifyEventSaved sends one message describing the event and its share link.
// PRE: shareURL is the event's deep link
// POST: exactly one Send call is made
func (n *ShareNotifier) NotifyEventSaved(ctx context.Context, e domainEvent.Event, shareURL string, updated bool) error {
	subject, text, body := shareMessage(e, shareURL, updated)
	category := "event_created"
	if updated {
		category = "event_updated"
	}
	_, err := n.sender.Send(ctx, SendRequest{
		To:       n.to,
		From:     n.from,
		Subject:  subject,
		HTML:     body,
		Text:     text,
		Category: category,
	})
	if err != nil {
		return fmt.Errorf("notify event %s: %w", e.ID, err)
	}
	return nil
}

func shareMessage(e domainEvent.Event, shareURL string, updated bool) (subject, text, body string) {
	verb := "登録"
	if updated {
		verb = "更新"
	}
	subject = fmt.Sprintf("[出欠] イベントが%sされました: %s %s", verb, e.Date, e.Title)

	lines := []string{
		fmt.Sprintf("%s %s %s", e.Date, e.Time, e.Title),
	}
	if label := e.Type.Label(); label != "" {
		lines = append(lines, "種別: "+label)
	}
	if e.Place != "" {
		lines = append(lines, "場所: "+e.Place)
	}
	if e.Note != "" {
		lines = append(lines, "メモ: "+e.Note)
	}
	lines = append(lines, "", "出欠の回答はこちら:", shareURL)
	text = strings.Join(lines, "\n")

	var b strings.Builder
	for _, l := range lines[:len(lines)-3] {
		b.WriteString("<p>" + html.EscapeString(l) + "</p>")
	}
	escaped := html.EscapeString(shareURL)
	b.WriteString(`<p>出欠の回答はこちら: <a href="` + escaped + `">` + escaped + `</a></p>`)
	body = b.String()
	return subject, text, body
}
