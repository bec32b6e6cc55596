package event

import (
	"context"

	domain "dugout/internal/domain/event"
	"dugout/internal/domain/lineup"
)

// Store persists Event state, including the embedded lineup.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Event, error)
	// List returns every event ordered by date ascending.
	List(ctx context.Context) ([]domain.Event, error)
	// SaveDetails merge-upserts the detail fields and leaves any stored lineup untouched.
	SaveDetails(ctx context.Context, value domain.Event) error
	// SaveLineup replaces the lineup of an existing event; storage.ErrNotFound otherwise.
	SaveLineup(ctx context.Context, eventID string, value lineup.Lineup) error
	// DeleteCascade removes the event and all of its attendance atomically.
	DeleteCascade(ctx context.Context, eventID string) error
}
