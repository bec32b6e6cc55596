package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainEvent "dugout/internal/domain/event"
)

// Save messages shown to the administrator.
const (
	MsgEventIDRequired     = "イベントIDを入力してください"
	MsgEventFieldsRequired = "試合名・日付・時間は必須です"
	MsgEventCreated        = "イベントを保存しました。"
	MsgEventUpdated        = "イベントを更新しました。"
)

// EventStoreForSave defines the store interface needed by SaveEvent.
type EventStoreForSave interface {
	SaveDetails(ctx context.Context, value domainEvent.Event) error
}

// EventNotifier announces a saved event. Implementations must not block for long.
type EventNotifier interface {
	NotifyEventSaved(ctx context.Context, e domainEvent.Event, shareURL string, updated bool) error
}

// SaveEventInput carries input for the save-event orchestrator.
type SaveEventInput struct {
	// EditingID is the id selected in the edit selector; empty for a new event.
	EditingID string
	ID        string
	Title     string
	Date      string
	Time      string
	Place     string
	Note      string
	Type      string
	IsAdmin   bool
}

// SaveEventResult carries the saved event and the text shown to the administrator.
type SaveEventResult struct {
	Event    domainEvent.Event
	ShareURL string
	Message  string
	Updated  bool
}

// SaveEventDeps holds dependencies for SaveEvent.
type SaveEventDeps struct {
	EventStore EventStoreForSave
	Notifier   EventNotifier // optional
	AppID      string
}

// ExecuteSaveEvent creates or updates an event's details.
// PRE: the caller is an administrator
// POST: detail fields are merge-written; a stored lineup is kept
// INVARIANT: an event being edited keeps its id
func ExecuteSaveEvent(ctx context.Context, input SaveEventInput, deps SaveEventDeps) (SaveEventResult, error) {
	if !input.IsAdmin {
		return SaveEventResult{}, ErrForbidden
	}

	id := strings.TrimSpace(input.ID)
	editing := strings.TrimSpace(input.EditingID)
	if editing != "" {
		if id != "" && id != editing {
			return SaveEventResult{}, invalid("編集中のイベントIDは変更できません", nil)
		}
		id = editing
	}
	if id == "" {
		return SaveEventResult{}, invalid(MsgEventIDRequired, domainEvent.ErrEmptyID)
	}

	e := domainEvent.Event{
		ID:    id,
		Title: strings.TrimSpace(input.Title),
		Date:  strings.TrimSpace(input.Date),
		Time:  strings.TrimSpace(input.Time),
		Place: strings.TrimSpace(input.Place),
		Note:  strings.TrimSpace(input.Note),
	}
	t, err := domainEvent.ParseType(input.Type)
	if err != nil {
		return SaveEventResult{}, invalid("イベント種別が正しくありません", err)
	}
	e.Type = t
	if err := e.Validate(); err != nil {
		return SaveEventResult{}, invalid(saveEventMessage(err), err)
	}

	if err := deps.EventStore.SaveDetails(ctx, e); err != nil {
		return SaveEventResult{}, err
	}

	result := SaveEventResult{
		Event:    e,
		ShareURL: domainEvent.ShareURL(deps.AppID, e.ID),
		Message:  MsgEventCreated,
		Updated:  editing != "",
	}
	if result.Updated {
		result.Message = MsgEventUpdated
	}
	slog.Info("event_event", "event", "event_saved", "event_id", e.ID, "updated", result.Updated, "type", e.Type)

	if deps.Notifier != nil {
		if err := deps.Notifier.NotifyEventSaved(ctx, e, result.ShareURL, result.Updated); err != nil {
			slog.Warn("event_event", "event", "share_notify_failed", "event_id", e.ID, "error", err)
		}
	}
	return result, nil
}

func saveEventMessage(err error) string {
	switch {
	case errors.Is(err, domainEvent.ErrEmptyID):
		return MsgEventIDRequired
	case errors.Is(err, domainEvent.ErrInvalidID):
		return "イベントIDに「/」は使えません"
	case errors.Is(err, domainEvent.ErrEmptyTitle),
		errors.Is(err, domainEvent.ErrEmptyDate),
		errors.Is(err, domainEvent.ErrEmptyTime):
		return MsgEventFieldsRequired
	case errors.Is(err, domainEvent.ErrFieldTooLong):
		return "入力が長すぎる項目があります"
	default:
		return "イベントの内容が正しくありません"
	}
}
