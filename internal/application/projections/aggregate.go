package projections

import (
	"log/slog"

	domainAttendance "dugout/internal/domain/attendance"
	domainEvent "dugout/internal/domain/event"
	domainMember "dugout/internal/domain/member"
)

// MatrixRow is one member line of the attendance matrix.
type MatrixRow struct {
	MemberID string
	Name     string
	// Orphan rows come from attendance records whose member no longer exists.
	Orphan bool
}

// Matrix holds a status for every (event, member) pair.
// Pairs without a stored record read as NoResponse.
type Matrix struct {
	Events []domainEvent.Event
	Rows   []MatrixRow
	cells  map[string]map[string]domainAttendance.Status
}

// Status returns the status of one member for one event.
func (m Matrix) Status(eventID, memberID string) domainAttendance.Status {
	if s, ok := m.cells[eventID][memberID]; ok {
		return s
	}
	return domainAttendance.NoResponse
}

// BuildMatrix joins events, members and attendance records.
// PRE: none; inputs may be empty
// POST: Rows lists members in input order followed by orphans in first-seen order
// INVARIANT: records with an unrecognised status or unknown event are dropped, never guessed
func BuildMatrix(events []domainEvent.Event, members []domainMember.Member, records []domainAttendance.Attendance) Matrix {
	m := Matrix{
		Events: events,
		Rows:   make([]MatrixRow, 0, len(members)),
		cells:  make(map[string]map[string]domainAttendance.Status, len(events)),
	}
	for _, e := range events {
		m.cells[e.ID] = make(map[string]domainAttendance.Status)
	}

	known := make(map[string]bool, len(members))
	for _, mem := range members {
		known[mem.ID] = true
		m.Rows = append(m.Rows, MatrixRow{MemberID: mem.ID, Name: mem.DisplayName()})
	}

	for _, rec := range records {
		cells, ok := m.cells[rec.EventID]
		if !ok {
			continue
		}
		status, err := domainAttendance.ParseStatus(string(rec.Status))
		if err != nil {
			slog.Warn("attendance_event", "event", "unknown_status_skipped",
				"event_id", rec.EventID, "member_id", rec.MemberID, "status", rec.Status)
			continue
		}
		if !known[rec.MemberID] {
			known[rec.MemberID] = true
			m.Rows = append(m.Rows, MatrixRow{MemberID: rec.MemberID, Name: domainMember.UnnamedLabel, Orphan: true})
		}
		cells[rec.MemberID] = status
	}
	return m
}

// EventSummary is the per-event mini summary shown in the list view.
type EventSummary struct {
	Present    []string `json:"present"`
	Late       []string `json:"late"`
	Undecided  int      `json:"undecided"`
	Absent     int      `json:"absent"`
	NoResponse int      `json:"noResponse"`
}

// Summaries computes an EventSummary for every event in the matrix.
// Names are collated; NoResponse counts roster members only.
func Summaries(m Matrix) map[string]EventSummary {
	out := make(map[string]EventSummary, len(m.Events))
	for _, e := range m.Events {
		s := EventSummary{Present: []string{}, Late: []string{}}
		for _, row := range m.Rows {
			switch m.Status(e.ID, row.MemberID) {
			case domainAttendance.Present:
				s.Present = append(s.Present, row.Name)
			case domainAttendance.Late:
				s.Late = append(s.Late, row.Name)
			case domainAttendance.Undecided:
				s.Undecided++
			case domainAttendance.Absent:
				s.Absent++
			default:
				if !row.Orphan {
					s.NoResponse++
				}
			}
		}
		sortNames(s.Present)
		sortNames(s.Late)
		out[e.ID] = s
	}
	return out
}

// Counters are the five per-status totals of the detail view.
type Counters struct {
	Present    int `json:"present"`
	Late       int `json:"late"`
	Undecided  int `json:"undecided"`
	Absent     int `json:"absent"`
	NoResponse int `json:"noResponse"`
}

func (c *Counters) add(s domainAttendance.Status) {
	switch s {
	case domainAttendance.Present:
		c.Present++
	case domainAttendance.Late:
		c.Late++
	case domainAttendance.Undecided:
		c.Undecided++
	case domainAttendance.Absent:
		c.Absent++
	default:
		c.NoResponse++
	}
}
