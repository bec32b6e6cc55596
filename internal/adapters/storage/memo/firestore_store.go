package memo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"dugout/internal/adapters/storage"
	domain "dugout/internal/domain/memo"
)

// memoDoc is the Firestore shape of a memo. createdAt is always the server's clock.
type memoDoc struct {
	Text       string    `firestore:"text"`
	AuthorID   string    `firestore:"authorId"`
	AuthorName string    `firestore:"authorName"`
	CreatedAt  time.Time `firestore:"createdAt,serverTimestamp"`
}

// FirestoreStore implements Store on the memos collection.
type FirestoreStore struct {
	client *firestore.Client
	timer  *storage.OpTimer
}

// NewFirestoreStore creates a new FirestoreStore.
func NewFirestoreStore(client *firestore.Client, timer *storage.OpTimer) *FirestoreStore {
	return &FirestoreStore{client: client, timer: timer}
}

func (s *FirestoreStore) col() *firestore.CollectionRef {
	return s.client.Collection(storage.CollectionMemos)
}

// Create adds a memo with an auto id and a server timestamp.
// POST: Returns the memo with ID and CreatedAt (the commit time) set
func (s *FirestoreStore) Create(ctx context.Context, m domain.Memo) (_ domain.Memo, err error) {
	done := s.timer.Start("firestore.memos.Create")
	defer func() { done(err) }()

	ref := s.col().NewDoc()
	if m.ID != "" {
		ref = s.col().Doc(m.ID)
	}
	res, err := ref.Create(ctx, memoDoc{Text: m.Text, AuthorID: m.AuthorID, AuthorName: m.AuthorName})
	if err != nil {
		return domain.Memo{}, storage.TranslateFirestoreError(err)
	}
	m.ID = ref.ID
	m.CreatedAt = res.UpdateTime
	return m, nil
}

// GetByID retrieves a memo by ID.
// POST: Returns the entity or storage.ErrNotFound
func (s *FirestoreStore) GetByID(ctx context.Context, id string) (_ domain.Memo, err error) {
	done := s.timer.Start("firestore.memos.Get")
	defer func() { done(err) }()

	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		return domain.Memo{}, fmt.Errorf("memo %s: %w", id, storage.TranslateFirestoreError(err))
	}
	return decodeMemo(snap)
}

// ListPage returns one page ordered by createdAt then document id, both descending.
func (s *FirestoreStore) ListPage(ctx context.Context, after *domain.Cursor, limit int) (_ []domain.Memo, err error) {
	done := s.timer.Start("firestore.memos.ListPage")
	defer func() { done(err) }()

	q := s.col().
		OrderBy("createdAt", firestore.Desc).
		OrderBy(firestore.DocumentID, firestore.Desc)
	if after != nil {
		q = q.StartAfter(after.CreatedAt, after.ID)
	}
	iter := q.Limit(limit).Documents(ctx)
	defer iter.Stop()

	var memos []domain.Memo
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		m, err := decodeMemo(snap)
		if err != nil {
			return nil, err
		}
		memos = append(memos, m)
	}
	return memos, nil
}

// Delete removes a memo by ID. Removing a missing memo is not an error.
func (s *FirestoreStore) Delete(ctx context.Context, id string) (err error) {
	done := s.timer.Start("firestore.memos.Delete")
	defer func() { done(err) }()

	_, err = s.col().Doc(id).Delete(ctx)
	return err
}

func decodeMemo(snap *firestore.DocumentSnapshot) (domain.Memo, error) {
	var doc memoDoc
	if err := snap.DataTo(&doc); err != nil {
		return domain.Memo{}, fmt.Errorf("decode memo %s: %w", snap.Ref.ID, err)
	}
	return domain.Memo{
		ID:         snap.Ref.ID,
		Text:       doc.Text,
		AuthorID:   doc.AuthorID,
		AuthorName: doc.AuthorName,
		CreatedAt:  doc.CreatedAt,
	}, nil
}
