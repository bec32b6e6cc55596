package projections

import (
	"context"
	"log/slog"
	"time"

	"dugout/internal/domain/access"
	domainAttendance "dugout/internal/domain/attendance"
	"dugout/internal/domain/calendar"
	domainEvent "dugout/internal/domain/event"
)

// DefaultUpcomingVisible is the number of upcoming events shown before the disclosure.
const DefaultUpcomingVisible = 3

// List view messages.
const (
	NoEventsListMessage = "イベントが登録されていません。"
	NoPastEventsMessage = "過去のイベントはありません。"
)

// EventListQuery carries query parameters.
type EventListQuery struct {
	Viewer access.Viewer
}

// EventRow is one event line of the list view.
type EventRow struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Date        string           `json:"date"`
	DisplayDate string           `json:"displayDate"`
	Year        string           `json:"year"`
	MonthDay    string           `json:"monthDay"`
	DayClass    string           `json:"dayClass"`
	DateInvalid bool             `json:"dateInvalid"`
	Time        string           `json:"time"`
	Place       string           `json:"place"`
	Type        domainEvent.Type `json:"type"`
	TypeLabel   string           `json:"typeLabel"`
	Summary     EventSummary     `json:"summary"`
	MyStatus    StatusView       `json:"myStatus"`
}

// StatusView is a status with its display metadata.
type StatusView struct {
	Code  domainAttendance.Status `json:"code"`
	Label string                  `json:"label"`
	Color string                  `json:"color"`
}

func newStatusView(s domainAttendance.Status) StatusView {
	return StatusView{Code: s, Label: s.Label(), Color: s.Color()}
}

// EventListResult carries the list view state.
type EventListResult struct {
	UpcomingVisible []EventRow `json:"upcomingVisible"`
	UpcomingHidden  []EventRow `json:"upcomingHidden"`
	Past            []EventRow `json:"past"`
	// PastOpen expands the past disclosure; set only when nothing is upcoming.
	PastOpen    bool   `json:"pastOpen"`
	PastMessage string `json:"pastMessage,omitempty"`
	Empty       bool   `json:"empty"`
	Message     string `json:"message,omitempty"`
}

// EventListDeps holds dependencies for QueryEventList.
type EventListDeps struct {
	EventStore      EventStore
	MemberStore     MemberStore
	AttendanceStore AttendanceStore
	Now             func() time.Time
	Location        *time.Location
	UpcomingVisible int
}

// QueryEventList builds the event list view.
// PRE: deps.Location is non-nil
// POST: events keep the store's date-ascending order inside each section
// INVARIANT: an event dated today is upcoming; an unparsable date is upcoming and flagged DateInvalid
func QueryEventList(ctx context.Context, query EventListQuery, deps EventListDeps) (EventListResult, error) {
	events, err := deps.EventStore.List(ctx)
	if err != nil {
		return EventListResult{}, err
	}
	result := EventListResult{
		UpcomingVisible: []EventRow{},
		UpcomingHidden:  []EventRow{},
		Past:            []EventRow{},
	}
	if len(events) == 0 {
		result.Empty = true
		result.Message = NoEventsListMessage
		return result, nil
	}

	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return EventListResult{}, err
	}
	records, err := deps.AttendanceStore.List(ctx)
	if err != nil {
		return EventListResult{}, err
	}
	matrix := BuildMatrix(events, members, records)
	summaries := Summaries(matrix)

	limit := deps.UpcomingVisible
	if limit <= 0 {
		limit = DefaultUpcomingVisible
	}
	today := calendar.Midnight(deps.Now(), deps.Location)

	var upcoming []EventRow
	for _, e := range events {
		row := newEventRow(e, deps.Location)
		row.Summary = summaries[e.ID]
		row.MyStatus = newStatusView(matrix.Status(e.ID, query.Viewer.UserID))

		past, valid := calendar.IsPast(e.Date, today)
		if !valid {
			row.DateInvalid = true
			slog.Warn("event_list", "event", "invalid_date", "event_id", e.ID, "date", e.Date)
		}
		if past {
			result.Past = append(result.Past, row)
		} else {
			upcoming = append(upcoming, row)
		}
	}

	for i, row := range upcoming {
		if i < limit {
			result.UpcomingVisible = append(result.UpcomingVisible, row)
		} else {
			result.UpcomingHidden = append(result.UpcomingHidden, row)
		}
	}
	result.PastOpen = len(upcoming) == 0
	if len(result.Past) == 0 {
		result.PastMessage = NoPastEventsMessage
	}
	return result, nil
}

func newEventRow(e domainEvent.Event, loc *time.Location) EventRow {
	year, monthDay := calendar.SplitDisplayDate(e.Date, loc)
	return EventRow{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date,
		DisplayDate: calendar.FormatDateWithWeekday(e.Date, loc),
		Year:        year,
		MonthDay:    monthDay,
		DayClass:    calendar.DayClass(e.Date, loc),
		Time:        e.Time,
		Place:       e.Place,
		Type:        e.Type,
		TypeLabel:   e.Type.Label(),
	}
}
