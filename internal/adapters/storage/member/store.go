package member

import (
	"context"

	domain "dugout/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	// Create inserts a new member; storage.ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, value domain.Member) error
	List(ctx context.Context) ([]domain.Member, error)
	ListActive(ctx context.Context) ([]domain.Member, error)
}
