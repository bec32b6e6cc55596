package member

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"dugout/internal/adapters/storage"
	domain "dugout/internal/domain/member"
)

// memberDoc is the Firestore shape of a member, keyed by user id.
type memberDoc struct {
	Name      string    `firestore:"name"`
	IsActive  bool      `firestore:"isActive"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

// FirestoreStore implements Store on the members collection.
type FirestoreStore struct {
	client *firestore.Client
	timer  *storage.OpTimer
}

// NewFirestoreStore creates a new FirestoreStore.
func NewFirestoreStore(client *firestore.Client, timer *storage.OpTimer) *FirestoreStore {
	return &FirestoreStore{client: client, timer: timer}
}

func (s *FirestoreStore) col() *firestore.CollectionRef {
	return s.client.Collection(storage.CollectionMembers)
}

// GetByID retrieves a Member by its ID.
// POST: Returns the entity or storage.ErrNotFound
func (s *FirestoreStore) GetByID(ctx context.Context, id string) (_ domain.Member, err error) {
	done := s.timer.Start("firestore.members.Get")
	defer func() { done(err) }()

	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		return domain.Member{}, fmt.Errorf("member %s: %w", id, storage.TranslateFirestoreError(err))
	}
	return decodeMember(snap)
}

// Create inserts a new member document.
// POST: storage.ErrAlreadyExists when the document exists
func (s *FirestoreStore) Create(ctx context.Context, m domain.Member) (err error) {
	done := s.timer.Start("firestore.members.Create")
	defer func() { done(err) }()

	doc := memberDoc{Name: m.Name, IsActive: m.IsActive, CreatedAt: m.CreatedAt}
	if _, err = s.col().Doc(m.ID).Create(ctx, doc); err != nil {
		return fmt.Errorf("member %s: %w", m.ID, storage.TranslateFirestoreError(err))
	}
	return nil
}

// List returns every member.
func (s *FirestoreStore) List(ctx context.Context) (_ []domain.Member, err error) {
	done := s.timer.Start("firestore.members.List")
	defer func() { done(err) }()
	return s.collect(s.col().Documents(ctx))
}

// ListActive returns members whose isActive flag is true.
func (s *FirestoreStore) ListActive(ctx context.Context) (_ []domain.Member, err error) {
	done := s.timer.Start("firestore.members.ListActive")
	defer func() { done(err) }()
	return s.collect(s.col().Where("isActive", "==", true).Documents(ctx))
}

func (s *FirestoreStore) collect(iter *firestore.DocumentIterator) ([]domain.Member, error) {
	defer iter.Stop()
	var members []domain.Member
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		m, err := decodeMember(snap)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func decodeMember(snap *firestore.DocumentSnapshot) (domain.Member, error) {
	var doc memberDoc
	if err := snap.DataTo(&doc); err != nil {
		return domain.Member{}, fmt.Errorf("decode member %s: %w", snap.Ref.ID, err)
	}
	return domain.Member{ID: snap.Ref.ID, Name: doc.Name, IsActive: doc.IsActive, CreatedAt: doc.CreatedAt}, nil
}
