package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dugout/internal/domain/access"
	domainAttendance "dugout/internal/domain/attendance"
	domainEvent "dugout/internal/domain/event"
)

// EventLookup defines the event read needed by orchestrators that act on an existing event.
type EventLookup interface {
	GetByID(ctx context.Context, id string) (domainEvent.Event, error)
}

// AttendanceStoreForSave defines the store interface needed by SaveAttendance.
type AttendanceStoreForSave interface {
	Upsert(ctx context.Context, value domainAttendance.Attendance) error
}

// SaveAttendanceInput carries input for the save-attendance orchestrator.
type SaveAttendanceInput struct {
	EventID string
	Status  string
	Viewer  access.Viewer
}

// SaveAttendanceDeps holds dependencies for SaveAttendance.
type SaveAttendanceDeps struct {
	EventStore      EventLookup
	AttendanceStore AttendanceStoreForSave
	Now             func() time.Time
}

// ExecuteSaveAttendance records the viewer's answer for one event.
// PRE: the viewer is signed in
// POST: exactly one record exists for (EventID, viewer) holding the latest status and time
// INVARIANT: no_response is never written; it is the absence of a record
func ExecuteSaveAttendance(ctx context.Context, input SaveAttendanceInput, deps SaveAttendanceDeps) (domainAttendance.Attendance, error) {
	if input.Viewer.Anonymous() {
		return domainAttendance.Attendance{}, ErrForbidden
	}
	status, err := domainAttendance.ParseStatus(input.Status)
	if err != nil {
		return domainAttendance.Attendance{}, invalid("出欠の選択肢が正しくありません。", err)
	}
	if _, err := deps.EventStore.GetByID(ctx, input.EventID); err != nil {
		return domainAttendance.Attendance{}, fmt.Errorf("save attendance: %w", err)
	}

	a := domainAttendance.Attendance{
		EventID:   input.EventID,
		MemberID:  input.Viewer.UserID,
		Status:    status,
		UpdatedAt: deps.Now(),
	}
	if err := a.Validate(); err != nil {
		return domainAttendance.Attendance{}, invalid("出欠を登録できませんでした。", err)
	}
	if err := deps.AttendanceStore.Upsert(ctx, a); err != nil {
		return domainAttendance.Attendance{}, err
	}

	slog.Info("attendance_event", "event", "attendance_saved", "event_id", a.EventID, "member_id", a.MemberID, "status", a.Status)
	return a, nil
}
