package projections

import (
	"context"

	domainAttendance "dugout/internal/domain/attendance"
	domainEvent "dugout/internal/domain/event"
	domainMember "dugout/internal/domain/member"
	domainMemo "dugout/internal/domain/memo"
)

// EventStore interface for event queries.
type EventStore interface {
	GetByID(ctx context.Context, id string) (domainEvent.Event, error)
	List(ctx context.Context) ([]domainEvent.Event, error)
}

// MemberStore interface for member queries.
type MemberStore interface {
	List(ctx context.Context) ([]domainMember.Member, error)
	ListActive(ctx context.Context) ([]domainMember.Member, error)
}

// AttendanceStore interface for attendance queries.
type AttendanceStore interface {
	List(ctx context.Context) ([]domainAttendance.Attendance, error)
	ListByEvent(ctx context.Context, eventID string) ([]domainAttendance.Attendance, error)
	ListByMember(ctx context.Context, memberID string) ([]domainAttendance.Attendance, error)
}

// MemoStore interface for memo feed queries.
type MemoStore interface {
	ListPage(ctx context.Context, after *domainMemo.Cursor, limit int) ([]domainMemo.Memo, error)
}
