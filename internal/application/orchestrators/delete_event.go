package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// EventStoreForDelete defines the store interface needed by DeleteEvent.
type EventStoreForDelete interface {
	EventLookup
	DeleteCascade(ctx context.Context, eventID string) error
}

// DeleteEventInput carries input for the delete-event orchestrator.
type DeleteEventInput struct {
	EventID   string
	Confirmed bool
	IsAdmin   bool
}

// DeleteEventDeps holds dependencies for DeleteEvent.
type DeleteEventDeps struct {
	EventStore EventStoreForDelete
}

// ExecuteDeleteEvent removes an event together with all of its attendance.
// PRE: the caller is an administrator and has confirmed the deletion
// POST: the event and every attendance record for it are gone, or nothing changed
func ExecuteDeleteEvent(ctx context.Context, input DeleteEventInput, deps DeleteEventDeps) error {
	if !input.IsAdmin {
		return ErrForbidden
	}
	id := strings.TrimSpace(input.EventID)
	if id == "" {
		return invalid("削除するイベントを選択してください。", nil)
	}
	if !input.Confirmed {
		return invalid("削除の確認が必要です。関連する出欠データもすべて削除されます。", nil)
	}
	if _, err := deps.EventStore.GetByID(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if err := deps.EventStore.DeleteCascade(ctx, id); err != nil {
		return err
	}

	slog.Info("event_event", "event", "event_deleted", "event_id", id)
	return nil
}
