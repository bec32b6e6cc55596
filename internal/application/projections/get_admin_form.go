package projections

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dugout/internal/domain/errs"
	domainEvent "dugout/internal/domain/event"
)

// EventOption is one entry of the admin event selector.
type EventOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// EventOptionsDeps holds dependencies for QueryEventOptions.
type EventOptionsDeps struct {
	EventStore EventStore
}

// QueryEventOptions lists every event for the admin selector, date ascending.
// POST: labels read "<date> <title> (<id>)"
func QueryEventOptions(ctx context.Context, deps EventOptionsDeps) ([]EventOption, error) {
	events, err := deps.EventStore.List(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]EventOption, 0, len(events))
	for _, e := range events {
		options = append(options, EventOption{
			ID:    e.ID,
			Label: fmt.Sprintf("%s %s (%s)", e.Date, e.Title, e.ID),
		})
	}
	return options, nil
}

// AdminFormQuery carries query parameters. An empty EventID opens a blank form.
type AdminFormQuery struct {
	EventID string
}

// TypeOption is one entry of the event type selector.
type TypeOption struct {
	Code  domainEvent.Type `json:"code"`
	Label string           `json:"label"`
}

// AdminFormResult is the state of the event edit form.
type AdminFormResult struct {
	ID    string           `json:"id"`
	Title string           `json:"title"`
	Date  string           `json:"date"`
	Time  string           `json:"time"`
	Place string           `json:"place"`
	Note  string           `json:"note"`
	Type  domainEvent.Type `json:"type"`
	Types []TypeOption     `json:"types"`
	// IDLocked disables the id input while editing an existing event.
	IDLocked bool   `json:"idLocked"`
	IsNew    bool   `json:"isNew"`
	NotFound bool   `json:"notFound"`
	Message  string `json:"message,omitempty"`
}

// AdminFormDeps holds dependencies for QueryAdminForm.
type AdminFormDeps struct {
	EventStore EventStore
}

// QueryAdminForm loads the edit form for one event, or a blank form.
// POST: a missing event yields a blank, unlocked form with NotFound and a message
func QueryAdminForm(ctx context.Context, query AdminFormQuery, deps AdminFormDeps) (AdminFormResult, error) {
	form := AdminFormResult{Types: typeOptions()}
	id := strings.TrimSpace(query.EventID)
	if id == "" {
		form.IsNew = true
		return form, nil
	}

	e, err := deps.EventStore.GetByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		form.IsNew = true
		form.NotFound = true
		form.Message = EventNotFoundMessage
		return form, nil
	}
	if err != nil {
		return AdminFormResult{}, err
	}
	form.ID = e.ID
	form.Title = e.Title
	form.Date = e.Date
	form.Time = e.Time
	form.Place = e.Place
	form.Note = e.Note
	form.Type = e.Type
	form.IDLocked = true
	return form, nil
}

func typeOptions() []TypeOption {
	out := []TypeOption{{Code: domainEvent.TypeNone, Label: "未設定"}}
	for _, t := range domainEvent.Types {
		out = append(out, TypeOption{Code: t, Label: t.Label()})
	}
	return out
}
