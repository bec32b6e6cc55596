package attendance

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"dugout/internal/adapters/storage"
	domain "dugout/internal/domain/attendance"
)

// attendanceDoc is the Firestore shape, keyed by "<eventId>_<lineUserId>".
type attendanceDoc struct {
	EventID    string    `firestore:"eventId"`
	LineUserID string    `firestore:"lineUserId"`
	Status     string    `firestore:"status"`
	UpdatedAt  time.Time `firestore:"updatedAt,serverTimestamp"`
}

// FirestoreStore implements Store on the attendance collection.
type FirestoreStore struct {
	client *firestore.Client
	timer  *storage.OpTimer
}

// NewFirestoreStore creates a new FirestoreStore.
func NewFirestoreStore(client *firestore.Client, timer *storage.OpTimer) *FirestoreStore {
	return &FirestoreStore{client: client, timer: timer}
}

func (s *FirestoreStore) col() *firestore.CollectionRef {
	return s.client.Collection(storage.CollectionAttendance)
}

// Upsert merge-writes the record under its natural key.
func (s *FirestoreStore) Upsert(ctx context.Context, a domain.Attendance) (err error) {
	done := s.timer.Start("firestore.attendance.Upsert")
	defer func() { done(err) }()

	_, err = s.col().Doc(domain.DocID(a.EventID, a.MemberID)).Set(ctx, map[string]any{
		"eventId":    a.EventID,
		"lineUserId": a.MemberID,
		"status":     string(a.Status),
		"updatedAt":  a.UpdatedAt,
	}, firestore.MergeAll)
	return err
}

// Get retrieves the record for one member and event.
// POST: storage.ErrNotFound when the member never answered
func (s *FirestoreStore) Get(ctx context.Context, eventID, memberID string) (_ domain.Attendance, err error) {
	done := s.timer.Start("firestore.attendance.Get")
	defer func() { done(err) }()

	id := domain.DocID(eventID, memberID)
	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("attendance %s: %w", id, storage.TranslateFirestoreError(err))
	}
	return decodeAttendance(snap)
}

// List returns every record.
func (s *FirestoreStore) List(ctx context.Context) (_ []domain.Attendance, err error) {
	done := s.timer.Start("firestore.attendance.List")
	defer func() { done(err) }()
	return collect(s.col().Documents(ctx))
}

// ListByEvent returns the records of one event.
func (s *FirestoreStore) ListByEvent(ctx context.Context, eventID string) (_ []domain.Attendance, err error) {
	done := s.timer.Start("firestore.attendance.ListByEvent")
	defer func() { done(err) }()
	return collect(s.col().Where("eventId", "==", eventID).Documents(ctx))
}

// ListByMember returns the records of one member.
func (s *FirestoreStore) ListByMember(ctx context.Context, memberID string) (_ []domain.Attendance, err error) {
	done := s.timer.Start("firestore.attendance.ListByMember")
	defer func() { done(err) }()
	return collect(s.col().Where("lineUserId", "==", memberID).Documents(ctx))
}

func collect(iter *firestore.DocumentIterator) ([]domain.Attendance, error) {
	defer iter.Stop()
	var records []domain.Attendance
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		a, err := decodeAttendance(snap)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
}

func decodeAttendance(snap *firestore.DocumentSnapshot) (domain.Attendance, error) {
	var doc attendanceDoc
	if err := snap.DataTo(&doc); err != nil {
		return domain.Attendance{}, fmt.Errorf("decode attendance %s: %w", snap.Ref.ID, err)
	}
	return domain.Attendance{
		EventID:   doc.EventID,
		MemberID:  doc.LineUserID,
		Status:    domain.Status(doc.Status),
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
