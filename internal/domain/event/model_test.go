package event_test

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"dugout/internal/domain/event"
)

func validEvent() event.Event {
	return event.Event{ID: "20251221", Title: "練習試合 vs 北高", Date: "2025-12-21", Time: "9:00", Type: event.TypePracticeGame}
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *event.Event)
		wantErr error
	}{
		{"valid", func(e *event.Event) {}, nil},
		{"untyped is allowed", func(e *event.Event) { e.Type = event.TypeNone }, nil},
		{"missing id", func(e *event.Event) { e.ID = " " }, event.ErrEmptyID},
		{"slash in id", func(e *event.Event) { e.ID = "a/b" }, event.ErrInvalidID},
		{"missing title", func(e *event.Event) { e.Title = "" }, event.ErrEmptyTitle},
		{"missing date", func(e *event.Event) { e.Date = "" }, event.ErrEmptyDate},
		{"missing time", func(e *event.Event) { e.Time = "" }, event.ErrEmptyTime},
		{"unknown type", func(e *event.Event) { e.Type = "tournament" }, event.ErrUnknownType},
		{"note too long", func(e *event.Event) { e.Note = strings.Repeat("x", event.MaxNoteLength+1) }, event.ErrFieldTooLong},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := validEvent()
			tc.mutate(&e)
			err := e.Validate()
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTypeLabelAndIsGame(t *testing.T) {
	tests := []struct {
		typ    event.Type
		label  string
		isGame bool
	}{
		{event.TypeOfficial, "公式戦", true},
		{event.TypePracticeGame, "練習試合", true},
		{event.TypePractice, "練習", false},
		{event.TypeOther, "その他イベント", false},
		{event.TypeNone, "", false},
		{event.Type("mystery"), "", false},
	}
	for _, tc := range tests {
		if got := tc.typ.Label(); got != tc.label {
			t.Errorf("%q label = %q, want %q", tc.typ, got, tc.label)
		}
		if got := tc.typ.IsGame(); got != tc.isGame {
			t.Errorf("%q IsGame = %v, want %v", tc.typ, got, tc.isGame)
		}
	}
}

func TestParseType(t *testing.T) {
	if got, err := event.ParseType("official"); err != nil || got != event.TypeOfficial {
		t.Errorf("ParseType(official) = %q, %v", got, err)
	}
	if got, err := event.ParseType(""); err != nil || got != event.TypeNone {
		t.Errorf("ParseType(\"\") = %q, %v", got, err)
	}
	if _, err := event.ParseType("camp"); !errors.Is(err, event.ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestShareURL(t *testing.T) {
	got := event.ShareURL("2008513371-Xr0AYLvA", "game 1&2")
	want := "https://liff.line.me/2008513371-Xr0AYLvA?eventId=game+1%262"
	if got != want {
		t.Errorf("ShareURL = %q, want %q", got, want)
	}
}

func TestEventIDFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"direct", "eventId=20251221", "20251221"},
		{"direct trimmed", "eventId=%20abc%20", "abc"},
		{"liff state", "liff.state=%3FeventId%3Dabc", "abc"},
		{"liff state with leading slash", "liff.state=%2F%3FeventId%3Dabc", "abc"},
		{"liff state without question mark", "liff.state=eventId%3Dabc", "abc"},
		{"direct wins over liff state", "eventId=one&liff.state=%3FeventId%3Dtwo", "one"},
		{"blank direct falls through", "eventId=%20&liff.state=%3FeventId%3Dtwo", "two"},
		{"neither", "foo=bar", ""},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("bad query: %v", err)
			}
			if got := event.EventIDFromQuery(q); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
