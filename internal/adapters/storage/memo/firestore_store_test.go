package memo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"dugout/internal/adapters/storage"
	domain "dugout/internal/domain/memo"
)

// newEmulatorClient connects to the Firestore emulator under a fresh project.
// Skipped when no emulator is configured.
func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	project := fmt.Sprintf("dugout-test-%d", time.Now().UnixNano())
	client, err := storage.OpenFirestore(context.Background(), project, "")
	if err != nil {
		t.Fatalf("open firestore: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// TestFirestoreStore_ListPage walks 7 memos in pages of 3 without gaps or repeats.
func TestFirestoreStore_ListPage(t *testing.T) {
	store := NewFirestoreStore(newEmulatorClient(t), nil)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		if _, err := store.Create(ctx, domain.Memo{Text: fmt.Sprintf("memo %02d", i), AuthorID: "U1"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	var seen []string
	var cursor *domain.Cursor
	for page := 0; page < 4; page++ {
		memos, err := store.ListPage(ctx, cursor, 3)
		if err != nil {
			t.Fatalf("ListPage: %v", err)
		}
		if len(memos) == 0 {
			break
		}
		for _, m := range memos {
			seen = append(seen, m.Text)
		}
		last := memos[len(memos)-1]
		cursor = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	if len(seen) != 7 {
		t.Fatalf("saw %d memos, want 7: %v", len(seen), seen)
	}
	if seen[0] != "memo 06" || seen[6] != "memo 00" {
		t.Errorf("expected newest first, got first=%q last=%q", seen[0], seen[6])
	}
}

// TestFirestoreStore_ListPage_TiesBreakByID pages through memos sharing one timestamp.
func TestFirestoreStore_ListPage_TiesBreakByID(t *testing.T) {
	client := newEmulatorClient(t)
	store := NewFirestoreStore(client, nil)
	ctx := context.Background()
	fixed := time.Date(2025, 12, 21, 10, 0, 0, 0, time.UTC)
	for _, id := range []string{"a", "b", "c"} {
		_, err := client.Collection(storage.CollectionMemos).Doc(id).Set(ctx, map[string]any{
			"text": id, "authorId": "U1", "authorName": "A", "createdAt": fixed,
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	first, err := store.ListPage(ctx, nil, 2)
	if err != nil || len(first) != 2 || first[0].ID != "c" || first[1].ID != "b" {
		t.Fatalf("first page: %+v, %v", first, err)
	}
	rest, err := store.ListPage(ctx, &domain.Cursor{CreatedAt: fixed, ID: "b"}, 2)
	if err != nil || len(rest) != 1 || rest[0].ID != "a" {
		t.Errorf("second page: %+v, %v", rest, err)
	}
}
