package event

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"dugout/internal/adapters/storage"
	domain "dugout/internal/domain/event"
	"dugout/internal/domain/lineup"
)

// FirestoreStore implements Store on the events collection.
// Documents are decoded field by field so records written by older clients
// (missing fields, numeric orders stored as doubles) still load.
type FirestoreStore struct {
	client *firestore.Client
	timer  *storage.OpTimer
}

// NewFirestoreStore creates a new FirestoreStore.
func NewFirestoreStore(client *firestore.Client, timer *storage.OpTimer) *FirestoreStore {
	return &FirestoreStore{client: client, timer: timer}
}

func (s *FirestoreStore) col() *firestore.CollectionRef {
	return s.client.Collection(storage.CollectionEvents)
}

// GetByID retrieves an event by ID.
// POST: Returns the entity or storage.ErrNotFound
func (s *FirestoreStore) GetByID(ctx context.Context, id string) (_ domain.Event, err error) {
	done := s.timer.Start("firestore.events.Get")
	defer func() { done(err) }()

	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, storage.TranslateFirestoreError(err))
	}
	return decodeEvent(snap), nil
}

// List returns every event ordered by date ascending.
func (s *FirestoreStore) List(ctx context.Context) (_ []domain.Event, err error) {
	done := s.timer.Start("firestore.events.List")
	defer func() { done(err) }()

	iter := s.col().OrderBy("date", firestore.Asc).Documents(ctx)
	defer iter.Stop()
	var events []domain.Event
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		events = append(events, decodeEvent(snap))
	}
	return events, nil
}

// SaveDetails merge-writes the detail fields; an existing lineup field is preserved.
func (s *FirestoreStore) SaveDetails(ctx context.Context, e domain.Event) (err error) {
	done := s.timer.Start("firestore.events.SaveDetails")
	defer func() { done(err) }()

	_, err = s.col().Doc(e.ID).Set(ctx, map[string]any{
		"title": e.Title,
		"date":  e.Date,
		"time":  e.Time,
		"place": e.Place,
		"note":  e.Note,
		"type":  string(e.Type),
	}, firestore.MergeAll)
	return err
}

// SaveLineup replaces the lineup field of an existing event.
// POST: storage.ErrNotFound when the event document does not exist
func (s *FirestoreStore) SaveLineup(ctx context.Context, eventID string, l lineup.Lineup) (err error) {
	done := s.timer.Start("firestore.events.SaveLineup")
	defer func() { done(err) }()

	_, err = s.col().Doc(eventID).Update(ctx, []firestore.Update{
		{Path: "lineup", Value: lineupToMap(l)},
	})
	if err != nil {
		return fmt.Errorf("event %s: %w", eventID, storage.TranslateFirestoreError(err))
	}
	return nil
}

// DeleteCascade removes the event and its attendance documents in one transaction.
// POST: storage.ErrNotFound (and nothing removed) when the event does not exist
func (s *FirestoreStore) DeleteCascade(ctx context.Context, eventID string) (err error) {
	done := s.timer.Start("firestore.events.DeleteCascade")
	defer func() { done(err) }()

	eventRef := s.col().Doc(eventID)
	attendanceQuery := s.client.Collection(storage.CollectionAttendance).Where("eventId", "==", eventID)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(eventRef); err != nil {
			return fmt.Errorf("event %s: %w", eventID, storage.TranslateFirestoreError(err))
		}
		refs, err := collectRefs(tx.Documents(attendanceQuery))
		if err != nil {
			return err
		}
		for _, ref := range refs {
			if err := tx.Delete(ref); err != nil {
				return err
			}
		}
		return tx.Delete(eventRef)
	})
}

func collectRefs(iter *firestore.DocumentIterator) ([]*firestore.DocumentRef, error) {
	defer iter.Stop()
	var refs []*firestore.DocumentRef
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return refs, nil
		}
		if err != nil {
			return nil, err
		}
		refs = append(refs, snap.Ref)
	}
}

func lineupToMap(l lineup.Lineup) map[string]any {
	rec := toRecord(l)
	starting := make([]any, 0, len(rec.Starting))
	for _, s := range rec.Starting {
		starting = append(starting, map[string]any{
			"order":    s.Order,
			"memberId": s.MemberID,
			"position": s.Position,
		})
	}
	return map[string]any{
		"system":      rec.System,
		"starting":    starting,
		"memo":        rec.Memo,
		"isPublished": rec.IsPublished,
	}
}

func decodeEvent(snap *firestore.DocumentSnapshot) domain.Event {
	data := snap.Data()
	e := domain.Event{
		ID:    snap.Ref.ID,
		Title: stringField(data, "title"),
		Date:  stringField(data, "date"),
		Time:  stringField(data, "time"),
		Place: stringField(data, "place"),
		Note:  stringField(data, "note"),
		Type:  domain.Type(stringField(data, "type")),
	}
	if raw, ok := data["lineup"].(map[string]any); ok {
		e.Lineup = fromRecord(e.ID, lineupFromMap(raw))
	}
	return e
}

func lineupFromMap(raw map[string]any) lineupRecord {
	rec := lineupRecord{
		System: stringField(raw, "system"),
		Memo:   stringField(raw, "memo"),
	}
	rec.IsPublished, _ = raw["isPublished"].(bool)
	items, _ := raw["starting"].([]any)
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec.Starting = append(rec.Starting, slotRecord{
			Order:    intField(m, "order"),
			MemberID: stringField(m, "memberId"),
			Position: stringField(m, "position"),
		})
	}
	return rec
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
