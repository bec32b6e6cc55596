package projections

import (
	"context"
	"fmt"
	"time"

	"dugout/internal/domain/access"
	domainAttendance "dugout/internal/domain/attendance"
	"dugout/internal/domain/calendar"
	domainEvent "dugout/internal/domain/event"
)

// EventNotFoundMessage is shown when a deep link points at a missing event.
const EventNotFoundMessage = "指定されたイベントが見つかりませんでした。"

// EventDetailQuery carries query parameters.
type EventDetailQuery struct {
	EventID string
	Viewer  access.Viewer
}

// EventInfo is the header block of the detail view.
type EventInfo struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Date        string           `json:"date"`
	DisplayDate string           `json:"displayDate"`
	Time        string           `json:"time"`
	Place       string           `json:"place"`
	Note        string           `json:"note"`
	Type        domainEvent.Type `json:"type"`
	TypeLabel   string           `json:"typeLabel"`
}

// MemberStatusRow is one line of the detail attendance table.
type MemberStatusRow struct {
	MemberID string     `json:"memberId"`
	Name     string     `json:"name"`
	Status   StatusView `json:"status"`
}

// EventDetailResult carries the detail view state.
type EventDetailResult struct {
	Event      EventInfo         `json:"event"`
	Attendance []MemberStatusRow `json:"attendance"`
	Counters   Counters          `json:"counters"`
	MyStatus   StatusView        `json:"myStatus"`
	Choices    []StatusView      `json:"choices"`
	Lineup     LineupView        `json:"lineup"`
	// ShareURL is set for administrators only.
	ShareURL string `json:"shareUrl,omitempty"`
}

// EventDetailDeps holds dependencies for QueryEventDetail.
type EventDetailDeps struct {
	EventStore      EventStore
	MemberStore     MemberStore
	AttendanceStore AttendanceStore
	Location        *time.Location
	AppID           string
}

// QueryEventDetail builds the detail view of one event.
// PRE: query.EventID is non-empty
// POST: Returns the view, or an error wrapping storage.ErrNotFound for a missing event
// INVARIANT: every roster member appears exactly once; members without a record read as no_response
func QueryEventDetail(ctx context.Context, query EventDetailQuery, deps EventDetailDeps) (EventDetailResult, error) {
	e, err := deps.EventStore.GetByID(ctx, query.EventID)
	if err != nil {
		return EventDetailResult{}, fmt.Errorf("load event detail: %w", err)
	}
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return EventDetailResult{}, err
	}
	records, err := deps.AttendanceStore.ListByEvent(ctx, e.ID)
	if err != nil {
		return EventDetailResult{}, err
	}
	matrix := BuildMatrix([]domainEvent.Event{e}, members, records)

	result := EventDetailResult{
		Event: EventInfo{
			ID:          e.ID,
			Title:       e.Title,
			Date:        e.Date,
			DisplayDate: calendar.FormatDateWithWeekday(e.Date, deps.Location),
			Time:        e.Time,
			Place:       e.Place,
			Note:        e.Note,
			Type:        e.Type,
			TypeLabel:   e.Type.Label(),
		},
		Attendance: make([]MemberStatusRow, 0, len(members)),
		MyStatus:   newStatusView(matrix.Status(e.ID, query.Viewer.UserID)),
	}
	for _, s := range domainAttendance.Responses {
		result.Choices = append(result.Choices, newStatusView(s))
	}

	statuses := make(map[string]domainAttendance.Status, len(matrix.Rows))
	for _, row := range matrix.Rows {
		status := matrix.Status(e.ID, row.MemberID)
		statuses[row.MemberID] = status
		if row.Orphan {
			continue
		}
		result.Counters.add(status)
		result.Attendance = append(result.Attendance, MemberStatusRow{
			MemberID: row.MemberID,
			Name:     row.Name,
			Status:   newStatusView(status),
		})
	}

	result.Lineup = BuildLineupView(LineupInput{
		Event:    e,
		Members:  members,
		Statuses: statuses,
		Viewer:   query.Viewer,
	})
	if query.Viewer.IsAdmin && deps.AppID != "" {
		result.ShareURL = domainEvent.ShareURL(deps.AppID, e.ID)
	}
	return result, nil
}
