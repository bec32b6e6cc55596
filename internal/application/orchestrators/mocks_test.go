package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dugout/internal/adapters/identity"
	domainAttendance "dugout/internal/domain/attendance"
	"dugout/internal/domain/errs"
	domainEvent "dugout/internal/domain/event"
	"dugout/internal/domain/lineup"
	domainMember "dugout/internal/domain/member"
	domainMemo "dugout/internal/domain/memo"
)

var testNow = time.Date(2025, 12, 21, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// --- Mock member store ---

type mockMemberStore struct {
	members     map[string]domainMember.Member
	createCalls int
	// raceOnCreate simulates a parallel login inserting the row first.
	raceOnCreate bool
	getErr       error
}

func newMockMemberStore() *mockMemberStore {
	return &mockMemberStore{members: make(map[string]domainMember.Member)}
}

func (m *mockMemberStore) GetByID(_ context.Context, id string) (domainMember.Member, error) {
	if m.getErr != nil {
		return domainMember.Member{}, m.getErr
	}
	mem, ok := m.members[id]
	if !ok {
		return domainMember.Member{}, fmt.Errorf("member %s: %w", id, errs.ErrNotFound)
	}
	return mem, nil
}

func (m *mockMemberStore) Create(_ context.Context, value domainMember.Member) error {
	m.createCalls++
	if m.raceOnCreate {
		m.members[value.ID] = domainMember.Member{ID: value.ID, Name: "先に登録", IsActive: true}
		return errs.ErrAlreadyExists
	}
	if _, ok := m.members[value.ID]; ok {
		return errs.ErrAlreadyExists
	}
	m.members[value.ID] = value
	return nil
}

// --- Mock event store ---

type mockEventStore struct {
	events      map[string]domainEvent.Event
	attendance  map[string][]string
	saveErr     error
	deleteErr   error
	saveCalls   int
	lineupCalls int
}

func newMockEventStore(events ...domainEvent.Event) *mockEventStore {
	s := &mockEventStore{events: make(map[string]domainEvent.Event), attendance: make(map[string][]string)}
	for _, e := range events {
		s.events[e.ID] = e
	}
	return s
}

func (m *mockEventStore) GetByID(_ context.Context, id string) (domainEvent.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return domainEvent.Event{}, fmt.Errorf("event %s: %w", id, errs.ErrNotFound)
	}
	return e, nil
}

func (m *mockEventStore) SaveDetails(_ context.Context, value domainEvent.Event) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	if existing, ok := m.events[value.ID]; ok {
		value.Lineup = existing.Lineup
	}
	m.events[value.ID] = value
	return nil
}

func (m *mockEventStore) SaveLineup(_ context.Context, eventID string, value lineup.Lineup) error {
	m.lineupCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	e, ok := m.events[eventID]
	if !ok {
		return errs.ErrNotFound
	}
	e.Lineup = &value
	m.events[eventID] = e
	return nil
}

func (m *mockEventStore) DeleteCascade(_ context.Context, eventID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.events, eventID)
	delete(m.attendance, eventID)
	return nil
}

// --- Mock attendance store ---

type mockAttendanceStore struct {
	records map[string]domainAttendance.Attendance
}

func newMockAttendanceStore() *mockAttendanceStore {
	return &mockAttendanceStore{records: make(map[string]domainAttendance.Attendance)}
}

func (m *mockAttendanceStore) Upsert(_ context.Context, value domainAttendance.Attendance) error {
	m.records[domainAttendance.DocID(value.EventID, value.MemberID)] = value
	return nil
}

// --- Mock memo store ---

type mockMemoStore struct {
	memos  map[string]domainMemo.Memo
	nextID int
}

func newMockMemoStore(memos ...domainMemo.Memo) *mockMemoStore {
	s := &mockMemoStore{memos: make(map[string]domainMemo.Memo)}
	for _, m := range memos {
		s.memos[m.ID] = m
	}
	return s
}

func (m *mockMemoStore) Create(_ context.Context, value domainMemo.Memo) (domainMemo.Memo, error) {
	m.nextID++
	value.ID = fmt.Sprintf("memo-%d", m.nextID)
	value.CreatedAt = testNow
	m.memos[value.ID] = value
	return value, nil
}

func (m *mockMemoStore) GetByID(_ context.Context, id string) (domainMemo.Memo, error) {
	memo, ok := m.memos[id]
	if !ok {
		return domainMemo.Memo{}, errs.ErrNotFound
	}
	return memo, nil
}

func (m *mockMemoStore) Delete(_ context.Context, id string) error {
	delete(m.memos, id)
	return nil
}

// --- Mock identity provider ---

type mockIdentity struct {
	profile identity.Profile
	err     error
}

func (m *mockIdentity) Verify(_ context.Context, _ identity.Credential) (identity.Profile, error) {
	return m.profile, m.err
}

// --- Mock notifier ---

type mockNotifier struct {
	calls    int
	shareURL string
	updated  bool
	err      error
}

func (m *mockNotifier) NotifyEventSaved(_ context.Context, _ domainEvent.Event, shareURL string, updated bool) error {
	m.calls++
	m.shareURL = shareURL
	m.updated = updated
	return m.err
}

var errBoom = errors.New("boom")
