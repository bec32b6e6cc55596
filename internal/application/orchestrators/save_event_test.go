package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	domainEvent "dugout/internal/domain/event"
	"dugout/internal/domain/lineup"
)

func TestExecuteSaveEvent_Create(t *testing.T) {
	store := newMockEventStore()
	notifier := &mockNotifier{}

	result, err := ExecuteSaveEvent(context.Background(), SaveEventInput{
		ID: "2026-spring", Title: "春季大会", Date: "2026-04-05", Time: "9:00", Place: "市民球場", Type: "official", IsAdmin: true,
	}, SaveEventDeps{EventStore: store, Notifier: notifier, AppID: "app-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != MsgEventCreated || result.Updated {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.ShareURL != "https://liff.line.me/app-1?eventId=2026-spring" {
		t.Errorf("share URL = %q", result.ShareURL)
	}
	if notifier.calls != 1 || notifier.shareURL != result.ShareURL {
		t.Errorf("notifier not called with share URL: %+v", notifier)
	}
	if store.events["2026-spring"].Type != domainEvent.TypeOfficial {
		t.Errorf("stored event = %+v", store.events["2026-spring"])
	}
}

// TestExecuteSaveEvent_UpdateKeepsLineup verifies edits leave the stored lineup alone.
func TestExecuteSaveEvent_UpdateKeepsLineup(t *testing.T) {
	saved := &lineup.Lineup{System: lineup.Normal9, Starting: []lineup.Slot{{Order: 1, MemberID: "A"}}}
	store := newMockEventStore(domainEvent.Event{ID: "e1", Title: "旧", Date: "2026-04-05", Time: "9:00", Type: domainEvent.TypeOfficial, Lineup: saved})

	result, err := ExecuteSaveEvent(context.Background(), SaveEventInput{
		EditingID: "e1", Title: "新", Date: "2026-04-06", Time: "10:00", Type: "official", IsAdmin: true,
	}, SaveEventDeps{EventStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != MsgEventUpdated || !result.Updated {
		t.Errorf("unexpected result: %+v", result)
	}
	got := store.events["e1"]
	if got.Title != "新" || got.Lineup == nil || len(got.Lineup.Starting) != 1 {
		t.Errorf("stored event = %+v", got)
	}
}

func TestExecuteSaveEvent_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   SaveEventInput
		wantMsg string
	}{
		{"missing id", SaveEventInput{Title: "t", Date: "2026-01-01", Time: "9:00"}, MsgEventIDRequired},
		{"missing title", SaveEventInput{ID: "e", Date: "2026-01-01", Time: "9:00"}, MsgEventFieldsRequired},
		{"missing time", SaveEventInput{ID: "e", Title: "t", Date: "2026-01-01", Time: "  "}, MsgEventFieldsRequired},
		{"slash in id", SaveEventInput{ID: "a/b", Title: "t", Date: "2026-01-01", Time: "9:00"}, "「/」"},
		{"unknown type", SaveEventInput{ID: "e", Title: "t", Date: "2026-01-01", Time: "9:00", Type: "party"}, "種別"},
		{"id change while editing", SaveEventInput{EditingID: "e1", ID: "e2", Title: "t", Date: "2026-01-01", Time: "9:00"}, "変更できません"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockEventStore()
			tt.input.IsAdmin = true
			_, err := ExecuteSaveEvent(context.Background(), tt.input, SaveEventDeps{EventStore: store})
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(ve.Message, tt.wantMsg) {
				t.Errorf("message = %q, want substring %q", ve.Message, tt.wantMsg)
			}
			if store.saveCalls != 0 {
				t.Error("invalid input must not be written")
			}
		})
	}
}

func TestExecuteSaveEvent_NotifyFailureDoesNotFailSave(t *testing.T) {
	store := newMockEventStore()
	notifier := &mockNotifier{err: errBoom}
	_, err := ExecuteSaveEvent(context.Background(), SaveEventInput{
		ID: "e", Title: "t", Date: "2026-01-01", Time: "9:00", IsAdmin: true,
	}, SaveEventDeps{EventStore: store, Notifier: notifier})
	if err != nil {
		t.Errorf("notification failure should be swallowed, got %v", err)
	}
}

func TestExecuteSaveEvent_Forbidden(t *testing.T) {
	_, err := ExecuteSaveEvent(context.Background(), SaveEventInput{ID: "e"}, SaveEventDeps{EventStore: newMockEventStore()})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}
