package projections

import (
	"context"
	"time"

	"dugout/internal/domain/access"
	domainAttendance "dugout/internal/domain/attendance"
	"dugout/internal/domain/calendar"
)

// MyAttendanceQuery carries query parameters.
type MyAttendanceQuery struct {
	Viewer access.Viewer
}

// MyAttendanceRow is one event with the viewer's own answer.
type MyAttendanceRow struct {
	EventID     string     `json:"eventId"`
	Title       string     `json:"title"`
	DisplayDate string     `json:"displayDate"`
	DayClass    string     `json:"dayClass"`
	Time        string     `json:"time"`
	TypeLabel   string     `json:"typeLabel"`
	Status      StatusView `json:"status"`
}

// MyAttendanceResult carries the overview. Past is collapsed unless nothing is upcoming.
type MyAttendanceResult struct {
	Upcoming []MyAttendanceRow `json:"upcoming"`
	Past     []MyAttendanceRow `json:"past"`
	PastOpen bool              `json:"pastOpen"`
	Empty    bool              `json:"empty"`
	Message  string            `json:"message,omitempty"`
}

// MyAttendanceDeps holds dependencies for QueryMyAttendance.
type MyAttendanceDeps struct {
	EventStore      EventStore
	AttendanceStore AttendanceStore
	Now             func() time.Time
	Location        *time.Location
}

// QueryMyAttendance lists every event with the viewer's status.
// PRE: query.Viewer is signed in
// POST: events without a record read as no_response
func QueryMyAttendance(ctx context.Context, query MyAttendanceQuery, deps MyAttendanceDeps) (MyAttendanceResult, error) {
	events, err := deps.EventStore.List(ctx)
	if err != nil {
		return MyAttendanceResult{}, err
	}
	result := MyAttendanceResult{Upcoming: []MyAttendanceRow{}, Past: []MyAttendanceRow{}}
	if len(events) == 0 {
		result.Empty = true
		result.Message = NoEventsListMessage
		return result, nil
	}

	records, err := deps.AttendanceStore.ListByMember(ctx, query.Viewer.UserID)
	if err != nil {
		return MyAttendanceResult{}, err
	}
	mine := make(map[string]domainAttendance.Status, len(records))
	for _, r := range records {
		if _, err := domainAttendance.ParseStatus(string(r.Status)); err == nil {
			mine[r.EventID] = r.Status
		}
	}

	today := calendar.Midnight(deps.Now(), deps.Location)
	for _, e := range events {
		status, ok := mine[e.ID]
		if !ok {
			status = domainAttendance.NoResponse
		}
		row := MyAttendanceRow{
			EventID:     e.ID,
			Title:       e.Title,
			DisplayDate: calendar.FormatDateWithWeekday(e.Date, deps.Location),
			DayClass:    calendar.DayClass(e.Date, deps.Location),
			Time:        e.Time,
			TypeLabel:   e.Type.Label(),
			Status:      newStatusView(status),
		}
		if past, _ := calendar.IsPast(e.Date, today); past {
			result.Past = append(result.Past, row)
		} else {
			result.Upcoming = append(result.Upcoming, row)
		}
	}
	result.PastOpen = len(result.Upcoming) == 0
	return result, nil
}
