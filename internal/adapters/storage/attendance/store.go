package attendance

import (
	"context"

	domain "dugout/internal/domain/attendance"
)

// Store persists Attendance state. Records are keyed by (EventID, MemberID).
type Store interface {
	// Upsert writes the record, replacing the status and update time of an existing one.
	Upsert(ctx context.Context, value domain.Attendance) error
	Get(ctx context.Context, eventID, memberID string) (domain.Attendance, error)
	List(ctx context.Context) ([]domain.Attendance, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Attendance, error)
	ListByMember(ctx context.Context, memberID string) ([]domain.Attendance, error)
}
