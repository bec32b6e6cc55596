package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dugout/internal/domain/errs"
	domainMember "dugout/internal/domain/member"
)

// MemberStoreForEnsure defines the store interface needed by EnsureMember.
type MemberStoreForEnsure interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
	Create(ctx context.Context, value domainMember.Member) error
}

// EnsureMemberInput carries input for the ensure-member orchestrator.
type EnsureMemberInput struct {
	UserID      string
	DisplayName string
}

// EnsureMemberDeps holds dependencies for EnsureMember.
type EnsureMemberDeps struct {
	MemberStore MemberStoreForEnsure
	Now         func() time.Time
}

// ExecuteEnsureMember registers the signed-in user on first sight.
// PRE: input.UserID is non-empty
// POST: a member record exists for UserID; an existing record is returned unchanged
// INVARIANT: the stored name is never overwritten by a later login
func ExecuteEnsureMember(ctx context.Context, input EnsureMemberInput, deps EnsureMemberDeps) (domainMember.Member, error) {
	existing, err := deps.MemberStore.GetByID(ctx, input.UserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return domainMember.Member{}, fmt.Errorf("look up member: %w", err)
	}

	m := domainMember.New(input.UserID, input.DisplayName, deps.Now())
	if err := m.Validate(); err != nil {
		return domainMember.Member{}, err
	}
	err = deps.MemberStore.Create(ctx, m)
	if errors.Is(err, errs.ErrAlreadyExists) {
		// A parallel login registered the member first.
		return deps.MemberStore.GetByID(ctx, input.UserID)
	}
	if err != nil {
		return domainMember.Member{}, fmt.Errorf("create member: %w", err)
	}

	slog.Info("member_event", "event", "member_registered", "member_id", m.ID)
	return m, nil
}
