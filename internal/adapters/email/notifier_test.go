package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	domainEvent "dugout/internal/domain/event"
)

type recordingSender struct {
	reqs []SendRequest
	err  error
}

func (s *recordingSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	s.reqs = append(s.reqs, req)
	return SendResult{MessageID: "m1"}, s.err
}

func TestNewShareNotifier_Disabled(t *testing.T) {
	if n := NewShareNotifier(&recordingSender{}, "from@example.com", []string{" ", ""}); n != nil {
		t.Error("notifier without recipients should be nil")
	}
	if n := NewShareNotifier(nil, "from@example.com", []string{"team@example.com"}); n != nil {
		t.Error("notifier without sender should be nil")
	}
}

func TestShareNotifier_NotifyEventSaved(t *testing.T) {
	sender := &recordingSender{}
	n := NewShareNotifier(sender, "Dugout <noreply@example.com>", []string{"team@example.com"})
	e := domainEvent.Event{ID: "e1", Title: "春季大会 <決勝>", Date: "2026-04-05", Time: "9:00", Place: "市民球場", Type: domainEvent.TypeOfficial}

	if err := n.NotifyEventSaved(context.Background(), e, "https://liff.line.me/app?eventId=e1&x=1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.reqs) != 1 {
		t.Fatalf("expected one send, got %d", len(sender.reqs))
	}
	req := sender.reqs[0]
	if req.Category != "event_updated" {
		t.Errorf("Category = %q, want event_updated", req.Category)
	}
	if !strings.Contains(req.Subject, "更新") || !strings.Contains(req.Subject, "春季大会") {
		t.Errorf("subject = %q", req.Subject)
	}
	if strings.Contains(req.HTML, "<決勝>") || !strings.Contains(req.HTML, "&lt;決勝&gt;") {
		t.Errorf("title not escaped in HTML: %q", req.HTML)
	}
	if !strings.Contains(req.HTML, "eventId=e1&amp;x=1") {
		t.Errorf("link not escaped in HTML: %q", req.HTML)
	}
	if !strings.Contains(req.Text, "https://liff.line.me/app?eventId=e1&x=1") || !strings.Contains(req.Text, "公式戦") {
		t.Errorf("text = %q", req.Text)
	}
}

func TestShareNotifier_SendError(t *testing.T) {
	sender := &recordingSender{err: errors.New("down")}
	n := NewShareNotifier(sender, "", []string{"team@example.com"})
	if err := n.NotifyEventSaved(context.Background(), domainEvent.Event{ID: "e1"}, "u", false); err == nil {
		t.Error("expected send error")
	}
}

func TestNoopSender(t *testing.T) {
	res, err := NewNoopSender().Send(context.Background(), SendRequest{To: []string{"a@example.com"}, Subject: "s"})
	if err != nil || !strings.HasPrefix(res.MessageID, "noop-") {
		t.Errorf("unexpected result: %+v, %v", res, err)
	}
	if _, err := NewNoopSender().Send(context.Background(), SendRequest{Subject: "s"}); !errors.Is(err, errNoRecipients) {
		t.Errorf("err = %v, want errNoRecipients", err)
	}
}
