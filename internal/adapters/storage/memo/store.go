package memo

import (
	"context"

	domain "dugout/internal/domain/memo"
)

// Store persists Memo state.
type Store interface {
	// Create assigns the id (when empty) and the creation time and returns the stored memo.
	Create(ctx context.Context, value domain.Memo) (domain.Memo, error)
	GetByID(ctx context.Context, id string) (domain.Memo, error)
	// ListPage returns up to limit memos, newest first, strictly after the cursor when one is given.
	ListPage(ctx context.Context, after *domain.Cursor, limit int) ([]domain.Memo, error)
	Delete(ctx context.Context, id string) error
}
