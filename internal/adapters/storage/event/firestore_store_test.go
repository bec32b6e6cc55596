package event

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"dugout/internal/adapters/storage"
)

// newEmulatorClient connects to the Firestore emulator under a fresh project so
// tests never see each other's documents. Skipped when no emulator is configured.
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

func seedAttendanceDoc(t *testing.T, client *firestore.Client, eventID, memberID string) {
	t.Helper()
	_, err := client.Collection(storage.CollectionAttendance).Doc(eventID+"_"+memberID).Set(context.Background(), map[string]any{
		"eventId":    eventID,
		"lineUserId": memberID,
		"status":     "present",
	})
	if err != nil {
		t.Fatalf("seed attendance: %v", err)
	}
}

func countAttendance(t *testing.T, client *firestore.Client, eventID string) int {
	t.Helper()
	snaps, err := client.Collection(storage.CollectionAttendance).Where("eventId", "==", eventID).Documents(context.Background()).GetAll()
	if err != nil {
		t.Fatalf("count attendance: %v", err)
	}
	return len(snaps)
}

func TestFirestoreStore_DeleteCascade(t *testing.T) {
	client := newEmulatorClient(t)
	store := NewFirestoreStore(client, nil)
	ctx := context.Background()

	for _, e := range []string{"e1", "e2"} {
		if err := store.SaveDetails(ctx, sampleEvent(e, "2025-12-21")); err != nil {
			t.Fatalf("SaveDetails: %v", err)
		}
	}
	seedAttendanceDoc(t, client, "e1", "U1")
	seedAttendanceDoc(t, client, "e1", "U2")
	seedAttendanceDoc(t, client, "e2", "U1")

	if err := store.DeleteCascade(ctx, "e1"); err != nil {
		t.Fatalf("DeleteCascade: %v", err)
	}
	if _, err := store.GetByID(ctx, "e1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("event still present: %v", err)
	}
	if n := countAttendance(t, client, "e1"); n != 0 {
		t.Errorf("e1 attendance left: %d", n)
	}
	if n := countAttendance(t, client, "e2"); n != 1 {
		t.Errorf("e2 attendance = %d, want 1", n)
	}
}

func TestFirestoreStore_DeleteCascade_MissingLeavesAttendance(t *testing.T) {
	client := newEmulatorClient(t)
	store := NewFirestoreStore(client, nil)
	seedAttendanceDoc(t, client, "gone", "U1")

	if err := store.DeleteCascade(context.Background(), "gone"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := countAttendance(t, client, "gone"); n != 1 {
		t.Errorf("attendance removed despite failure: %d left", n)
	}
}
