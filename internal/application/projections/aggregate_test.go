package projections

import (
	"reflect"
	"testing"

	domainAttendance "dugout/internal/domain/attendance"
	domainEvent "dugout/internal/domain/event"
	domainMember "dugout/internal/domain/member"
)

// TestBuildMatrix_DefaultsAndOrphans covers no_response defaults, orphan rows and skipped records.
func TestBuildMatrix_DefaultsAndOrphans(t *testing.T) {
	events := []domainEvent.Event{{ID: "e1"}, {ID: "e2"}}
	members := []domainMember.Member{active("A", "青木"), active("B", "")}
	records := []domainAttendance.Attendance{
		rec("e1", "A", domainAttendance.Present),
		rec("e1", "ghost", domainAttendance.Late),
		rec("e1", "B", "maybe"),
		rec("deleted-event", "A", domainAttendance.Absent),
	}

	m := BuildMatrix(events, members, records)

	if got := m.Status("e1", "A"); got != domainAttendance.Present {
		t.Errorf("e1/A = %s", got)
	}
	if got := m.Status("e2", "A"); got != domainAttendance.NoResponse {
		t.Errorf("e2/A = %s, want no_response", got)
	}
	if got := m.Status("e1", "B"); got != domainAttendance.NoResponse {
		t.Errorf("unknown status must be skipped, got %s", got)
	}
	if len(m.Rows) != 3 {
		t.Fatalf("rows = %+v", m.Rows)
	}
	if m.Rows[1].Name != domainMember.UnnamedLabel {
		t.Errorf("unnamed member should show placeholder, got %q", m.Rows[1].Name)
	}
	orphan := m.Rows[2]
	if !orphan.Orphan || orphan.MemberID != "ghost" || orphan.Name != domainMember.UnnamedLabel {
		t.Errorf("unexpected orphan row: %+v", orphan)
	}
}

// TestSummaries_CollatesNamesAndCounts checks present/late name lists and counters.
func TestSummaries_CollatesNamesAndCounts(t *testing.T) {
	events := []domainEvent.Event{{ID: "e1"}}
	members := []domainMember.Member{
		active("1", "わたなべ"), active("2", "あおき"), active("3", "かとう"),
		active("4", "さとう"), active("5", "たなか"), active("6", "やまだ"),
	}
	records := []domainAttendance.Attendance{
		rec("e1", "1", domainAttendance.Present),
		rec("e1", "2", domainAttendance.Present),
		rec("e1", "3", domainAttendance.Late),
		rec("e1", "4", domainAttendance.Undecided),
		rec("e1", "5", domainAttendance.Absent),
		rec("e1", "orphan", domainAttendance.Present),
	}

	s := Summaries(BuildMatrix(events, members, records))["e1"]

	wantPresent := []string{"あおき", "わたなべ", domainMember.UnnamedLabel}
	if !reflect.DeepEqual(s.Present, wantPresent) {
		t.Errorf("present = %v, want %v", s.Present, wantPresent)
	}
	if !reflect.DeepEqual(s.Late, []string{"かとう"}) {
		t.Errorf("late = %v", s.Late)
	}
	if s.Undecided != 1 || s.Absent != 1 || s.NoResponse != 1 {
		t.Errorf("counts = %+v", s)
	}
}

func TestSummaries_EmptyListsAreNotNil(t *testing.T) {
	s := Summaries(BuildMatrix([]domainEvent.Event{{ID: "e1"}}, nil, nil))["e1"]
	if s.Present == nil || s.Late == nil {
		t.Error("name lists must be empty slices for JSON output")
	}
}
