package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dugout/internal/domain/access"
	"dugout/internal/domain/errs"
	domainMember "dugout/internal/domain/member"
	domainMemo "dugout/internal/domain/memo"
)

// MemoStoreForOrchestrator defines the store interface needed by memo orchestrators.
type MemoStoreForOrchestrator interface {
	Create(ctx context.Context, value domainMemo.Memo) (domainMemo.Memo, error)
	GetByID(ctx context.Context, id string) (domainMemo.Memo, error)
	Delete(ctx context.Context, id string) error
}

// MemberNameLookup resolves the author snapshot name.
type MemberNameLookup interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
}

// MsgMemoEmpty is shown when a memo is submitted without text.
const MsgMemoEmpty = "メモを入力してください。"

// --- Create Memo ---

// CreateMemoInput carries input for posting a memo.
type CreateMemoInput struct {
	Text   string
	Viewer access.Viewer
}

// CreateMemoDeps holds dependencies for CreateMemo.
type CreateMemoDeps struct {
	MemoStore   MemoStoreForOrchestrator
	MemberStore MemberNameLookup
}

// ExecuteCreateMemo posts a memo to the shared board.
// PRE: the viewer is signed in
// POST: Returns the stored memo with id and server-assigned time
// INVARIANT: AuthorName snapshots the member name, then the login name, then "Unknown"
func ExecuteCreateMemo(ctx context.Context, input CreateMemoInput, deps CreateMemoDeps) (domainMemo.Memo, error) {
	if input.Viewer.Anonymous() {
		return domainMemo.Memo{}, ErrForbidden
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return domainMemo.Memo{}, invalid(MsgMemoEmpty, domainMemo.ErrEmptyText)
	}

	author := strings.TrimSpace(input.Viewer.DisplayName)
	m, err := deps.MemberStore.GetByID(ctx, input.Viewer.UserID)
	switch {
	case err == nil && strings.TrimSpace(m.Name) != "":
		author = strings.TrimSpace(m.Name)
	case err != nil && !errors.Is(err, errs.ErrNotFound):
		return domainMemo.Memo{}, fmt.Errorf("resolve memo author: %w", err)
	}
	if author == "" {
		author = domainMemo.UnknownAuthor
	}

	memo := domainMemo.Memo{
		Text:       text,
		AuthorID:   input.Viewer.UserID,
		AuthorName: author,
	}
	if err := memo.Validate(); err != nil {
		return domainMemo.Memo{}, invalid("メモは2000文字以内で入力してください。", err)
	}
	stored, err := deps.MemoStore.Create(ctx, memo)
	if err != nil {
		return domainMemo.Memo{}, err
	}

	slog.Info("memo_event", "event", "memo_created", "memo_id", stored.ID, "author_id", stored.AuthorID)
	return stored, nil
}

// --- Delete Memo ---

// DeleteMemoInput carries input for removing a memo.
type DeleteMemoInput struct {
	MemoID string
	Viewer access.Viewer
}

// DeleteMemoDeps holds dependencies for DeleteMemo.
type DeleteMemoDeps struct {
	MemoStore MemoStoreForOrchestrator
}

// ExecuteDeleteMemo removes a memo.
// PRE: MemoID is non-empty
// POST: the memo is gone; nothing else is touched
// INVARIANT: only the author or an administrator may delete
func ExecuteDeleteMemo(ctx context.Context, input DeleteMemoInput, deps DeleteMemoDeps) error {
	m, err := deps.MemoStore.GetByID(ctx, input.MemoID)
	if err != nil {
		return fmt.Errorf("delete memo: %w", err)
	}
	if !m.DeletableBy(input.Viewer) {
		slog.Info("memo_event", "event", "memo_delete_denied", "memo_id", m.ID, "user_id", input.Viewer.UserID)
		return ErrForbidden
	}
	if err := deps.MemoStore.Delete(ctx, m.ID); err != nil {
		return err
	}

	slog.Info("memo_event", "event", "memo_deleted", "memo_id", m.ID, "by", input.Viewer.UserID, "admin", input.Viewer.IsAdmin)
	return nil
}
