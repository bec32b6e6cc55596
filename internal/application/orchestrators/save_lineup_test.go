package orchestrators

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"dugout/internal/domain/access"
	"dugout/internal/domain/errs"
	domainEvent "dugout/internal/domain/event"
	"dugout/internal/domain/lineup"
)

var admin = access.Viewer{UserID: "U-admin", IsAdmin: true}

// TestExecuteSaveLineup_RoundTrip drops empty rows and returns what was stored.
func TestExecuteSaveLineup_RoundTrip(t *testing.T) {
	store := newMockEventStore(domainEvent.Event{ID: "e1", Type: domainEvent.TypeOfficial})

	saved, err := ExecuteSaveLineup(context.Background(), SaveLineupInput{
		EventID: "e1",
		System:  "DH10",
		Slots: []SlotInput{
			{Order: 1, MemberID: "A", Position: "投"},
			{Order: 2, MemberID: "", Position: "捕"},
			{Order: 3, MemberID: lineup.GuestMemberID, Position: "DH"},
			{Order: 4, MemberID: lineup.GuestMemberID},
		},
		Memo:        " 先攻 ",
		IsPublished: true,
		Viewer:      admin,
	}, SaveLineupDeps{EventStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []lineup.Slot{
		{Order: 1, MemberID: "A", Position: "投"},
		{Order: 3, MemberID: lineup.GuestMemberID, Position: "DH"},
		{Order: 4, MemberID: lineup.GuestMemberID},
	}
	if !reflect.DeepEqual(saved.Starting, want) {
		t.Errorf("starting = %+v, want %+v", saved.Starting, want)
	}
	if saved.System != lineup.DH10 || saved.Memo != "先攻" || !saved.IsPublished {
		t.Errorf("unexpected lineup: %+v", saved)
	}
	stored := store.events["e1"].Lineup
	if stored == nil || !reflect.DeepEqual(*stored, saved) {
		t.Errorf("stored lineup differs from returned: %+v", stored)
	}
}

func TestExecuteSaveLineup_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		input   SaveLineupInput
		wantErr error
	}{
		{"non-admin", SaveLineupInput{EventID: "e1", Viewer: access.Viewer{UserID: "U1"}}, ErrForbidden},
		{"unknown system", SaveLineupInput{EventID: "e1", System: "DH20", Viewer: admin}, lineup.ErrUnknownSystem},
		{"order beyond slots", SaveLineupInput{EventID: "e1", Slots: []SlotInput{{Order: 10, MemberID: "A"}}, Viewer: admin}, lineup.ErrInvalidOrder},
		{"duplicate member", SaveLineupInput{EventID: "e1", Slots: []SlotInput{{Order: 1, MemberID: "A"}, {Order: 2, MemberID: "A"}}, Viewer: admin}, lineup.ErrDuplicateMember},
		{"bad position", SaveLineupInput{EventID: "e1", Slots: []SlotInput{{Order: 1, MemberID: "A", Position: "監督"}}, Viewer: admin}, lineup.ErrInvalidPosition},
		{"missing event", SaveLineupInput{EventID: "zz", Viewer: admin}, errs.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockEventStore(domainEvent.Event{ID: "e1", Type: domainEvent.TypeOfficial})
			_, err := ExecuteSaveLineup(context.Background(), tt.input, SaveLineupDeps{EventStore: store})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if store.lineupCalls != 0 {
				t.Error("failed save must not write")
			}
		})
	}
}

func TestExecuteSaveLineup_NonGameEvent(t *testing.T) {
	store := newMockEventStore(domainEvent.Event{ID: "p1", Type: domainEvent.TypePractice})
	_, err := ExecuteSaveLineup(context.Background(), SaveLineupInput{EventID: "p1", Viewer: admin}, SaveLineupDeps{EventStore: store})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected validation error, got %v", err)
	}
}
