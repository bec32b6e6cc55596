package projections

import (
	"context"
	"fmt"
	"sort"
	"time"

	domainAttendance "dugout/internal/domain/attendance"
	"dugout/internal/domain/errs"
	domainEvent "dugout/internal/domain/event"
	domainMember "dugout/internal/domain/member"
	domainMemo "dugout/internal/domain/memo"
)

var tokyo = time.FixedZone("JST", 9*60*60)

// fixedNow is 2025-12-21 10:00 JST, a Sunday.
func fixedNow() time.Time { return time.Date(2025, 12, 21, 10, 0, 0, 0, tokyo) }

type mockEventStore struct {
	events []domainEvent.Event
	err    error
}

func (m *mockEventStore) GetByID(_ context.Context, id string) (domainEvent.Event, error) {
	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return domainEvent.Event{}, fmt.Errorf("event %s: %w", id, errs.ErrNotFound)
}

func (m *mockEventStore) List(_ context.Context) ([]domainEvent.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := append([]domainEvent.Event(nil), m.events...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

type mockMemberStore struct {
	members []domainMember.Member
}

func (m *mockMemberStore) List(_ context.Context) ([]domainMember.Member, error) {
	return m.members, nil
}

func (m *mockMemberStore) ListActive(_ context.Context) ([]domainMember.Member, error) {
	var out []domainMember.Member
	for _, mem := range m.members {
		if mem.IsActive {
			out = append(out, mem)
		}
	}
	return out, nil
}

type mockAttendanceStore struct {
	records []domainAttendance.Attendance
}

func (m *mockAttendanceStore) List(_ context.Context) ([]domainAttendance.Attendance, error) {
	return m.records, nil
}

func (m *mockAttendanceStore) ListByEvent(_ context.Context, eventID string) ([]domainAttendance.Attendance, error) {
	var out []domainAttendance.Attendance
	for _, r := range m.records {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockAttendanceStore) ListByMember(_ context.Context, memberID string) ([]domainAttendance.Attendance, error) {
	var out []domainAttendance.Attendance
	for _, r := range m.records {
		if r.MemberID == memberID {
			out = append(out, r)
		}
	}
	return out, nil
}

// mockMemoStore pages an in-memory slice sorted newest first.
type mockMemoStore struct {
	memos []domainMemo.Memo
	calls []*domainMemo.Cursor
}

func (m *mockMemoStore) ListPage(_ context.Context, after *domainMemo.Cursor, limit int) ([]domainMemo.Memo, error) {
	m.calls = append(m.calls, after)
	sorted := append([]domainMemo.Memo(nil), m.memos...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	var out []domainMemo.Memo
	for _, memo := range sorted {
		if after != nil {
			if memo.CreatedAt.After(after.CreatedAt) {
				continue
			}
			if memo.CreatedAt.Equal(after.CreatedAt) && memo.ID >= after.ID {
				continue
			}
		}
		out = append(out, memo)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func rec(eventID, memberID string, s domainAttendance.Status) domainAttendance.Attendance {
	return domainAttendance.Attendance{EventID: eventID, MemberID: memberID, Status: s}
}

func active(id, name string) domainMember.Member {
	return domainMember.Member{ID: id, Name: name, IsActive: true}
}
