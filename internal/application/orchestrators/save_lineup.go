package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"dugout/internal/domain/access"
	"dugout/internal/domain/lineup"
)

// EventStoreForLineup defines the store interface needed by SaveLineup.
type EventStoreForLineup interface {
	EventLookup
	SaveLineup(ctx context.Context, eventID string, value lineup.Lineup) error
}

// SlotInput is one submitted batting-order row. Rows without a member are dropped.
type SlotInput struct {
	Order    int
	MemberID string
	Position string
}

// SaveLineupInput carries input for the save-lineup orchestrator.
type SaveLineupInput struct {
	EventID     string
	System      string
	Slots       []SlotInput
	Memo        string
	IsPublished bool
	Viewer      access.Viewer
}

// SaveLineupDeps holds dependencies for SaveLineup.
type SaveLineupDeps struct {
	EventStore EventStoreForLineup
}

// ExecuteSaveLineup validates and stores an event's lineup.
// PRE: the viewer is an administrator
// POST: Returns the lineup exactly as persisted; on error nothing is written
// INVARIANT: the stored lineup never contains a row without a member
func ExecuteSaveLineup(ctx context.Context, input SaveLineupInput, deps SaveLineupDeps) (lineup.Lineup, error) {
	if !input.Viewer.IsAdmin {
		return lineup.Lineup{}, ErrForbidden
	}
	system, err := lineup.ParseSystem(input.System)
	if err != nil {
		return lineup.Lineup{}, invalid("打順の人数設定が正しくありません。", err)
	}

	l := lineup.Lineup{
		System:      system,
		Starting:    make([]lineup.Slot, 0, len(input.Slots)),
		Memo:        input.Memo,
		IsPublished: input.IsPublished,
	}
	for _, s := range input.Slots {
		l.Starting = append(l.Starting, lineup.Slot{Order: s.Order, MemberID: s.MemberID, Position: s.Position})
	}
	l.Compact()
	if err := l.Validate(); err != nil {
		return lineup.Lineup{}, invalid("オーダーの内容が正しくありません。", err)
	}

	e, err := deps.EventStore.GetByID(ctx, input.EventID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("save lineup: %w", err)
	}
	if !e.Type.IsGame() {
		return lineup.Lineup{}, invalid("オーダーは試合イベントにのみ登録できます。", nil)
	}
	if err := deps.EventStore.SaveLineup(ctx, e.ID, l); err != nil {
		return lineup.Lineup{}, err
	}

	slog.Info("lineup_event", "event", "lineup_saved", "event_id", e.ID, "system", l.System, "slots", len(l.Starting), "published", l.IsPublished)
	return l, nil
}
