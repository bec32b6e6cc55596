package attendance

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is a member's answer for one event.
type Status string

// Statuses. NoResponse is derived and is never stored.
const (
	Present    Status = "present"
	Late       Status = "late"
	Undecided  Status = "undecided"
	Absent     Status = "absent"
	NoResponse Status = "no_response"
)

// Responses lists the statuses a member can choose, in display order.
var Responses = []Status{Present, Late, Undecided, Absent}

// Domain errors
var (
	ErrUnknownStatus = errors.New("status must be one of: present, late, undecided, absent")
	ErrEmptyEventID  = errors.New("attendance must reference an event")
	ErrEmptyMemberID = errors.New("attendance must reference a member")
)

// Display is the presentation metadata for a status.
type Display struct {
	Mark  string
	Label string
	Color string
}

var displays = map[Status]Display{
	Present:    {Mark: "◎", Label: "出席", Color: "green"},
	Late:       {Mark: "〇", Label: "遅刻", Color: "orange"},
	Undecided:  {Mark: "△", Label: "未定", Color: "blue"},
	Absent:     {Mark: "✖", Label: "欠席", Color: "red"},
	NoResponse: {Mark: "", Label: "未回答", Color: "gray"},
}

// ParseStatus accepts one of the four response codes.
// POST: NoResponse and unknown codes return ErrUnknownStatus
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	switch s {
	case Present, Late, Undecided, Absent:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// Display returns the mark, label and color for s. Unknown values render as NoResponse.
func (s Status) Display() Display {
	if d, ok := displays[s]; ok {
		return d
	}
	return displays[NoResponse]
}

// Label returns the full label, e.g. "◎ 出席".
func (s Status) Label() string {
	d := s.Display()
	if d.Mark == "" {
		return d.Label
	}
	return d.Mark + " " + d.Label
}

// Color returns the status color name.
func (s Status) Color() string {
	return s.Display().Color
}

// Attending reports whether the status counts toward attendance (present or late).
func (s Status) Attending() bool {
	return s == Present || s == Late
}

// Attendance is one member's stored answer for one event.
type Attendance struct {
	EventID   string
	MemberID  string
	Status    Status
	UpdatedAt time.Time
}

// DocID returns the natural key "<eventId>_<memberId>".
// INVARIANT: at most one record exists per (event, member) pair
func DocID(eventID, memberID string) string {
	return eventID + "_" + memberID
}

// Validate checks if the Attendance has valid data.
// PRE: Attendance struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (a *Attendance) Validate() error {
	if strings.TrimSpace(a.EventID) == "" {
		return ErrEmptyEventID
	}
	if strings.TrimSpace(a.MemberID) == "" {
		return ErrEmptyMemberID
	}
	if _, err := ParseStatus(string(a.Status)); err != nil {
		return err
	}
	return nil
}
