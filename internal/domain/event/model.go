package event

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"dugout/internal/domain/lineup"
)

// Type is the event category code.
type Type string

// Event types. Untyped events carry the empty code.
const (
	TypeNone         Type = ""
	TypeOfficial     Type = "official"
	TypePracticeGame Type = "practiceGame"
	TypePractice     Type = "practice"
	TypeOther        Type = "other"
)

// Types lists the selectable types in display order.
var Types = []Type{TypeOfficial, TypePracticeGame, TypePractice, TypeOther}

var typeLabels = map[Type]string{
	TypeNone:         "",
	TypeOfficial:     "公式戦",
	TypePracticeGame: "練習試合",
	TypePractice:     "練習",
	TypeOther:        "その他イベント",
}

// Max length constants for user-editable fields.
const (
	MaxIDLength    = 100
	MaxTitleLength = 200
	MaxPlaceLength = 200
	MaxNoteLength  = 2000
	MaxTimeLength  = 50
)

// ShareBaseURL is the login provider's app launcher.
const ShareBaseURL = "https://liff.line.me/"

// Domain errors
var (
	ErrUnknownType  = errors.New("event type must be one of: official, practiceGame, practice, other")
	ErrEmptyID      = errors.New("event id cannot be empty")
	ErrInvalidID    = errors.New("event id cannot contain '/'")
	ErrEmptyTitle   = errors.New("event title cannot be empty")
	ErrEmptyDate    = errors.New("event date cannot be empty")
	ErrEmptyTime    = errors.New("event time cannot be empty")
	ErrFieldTooLong = errors.New("event field exceeds its maximum length")
)

// ParseType accepts a known type code or the empty string.
func ParseType(raw string) (Type, error) {
	t := Type(strings.TrimSpace(raw))
	if _, ok := typeLabels[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
	return t, nil
}

// Label returns the Japanese label. Unknown and empty codes render as "".
func (t Type) Label() string {
	return typeLabels[t]
}

// IsGame reports whether the event can carry a lineup.
func (t Type) IsGame() bool {
	return t == TypeOfficial || t == TypePracticeGame
}

// Event is a scheduled team activity.
type Event struct {
	ID     string
	Title  string
	Date   string // YYYY-MM-DD, older records may carry a suffix
	Time   string
	Place  string
	Note   string
	Type   Type
	Lineup *lineup.Lineup
}

// Validate checks if the Event has valid data.
// PRE: Event struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: ID, Title, Date and Time must not be blank
func (e *Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if strings.Contains(e.ID, "/") {
		return ErrInvalidID
	}
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(e.Date) == "" {
		return ErrEmptyDate
	}
	if strings.TrimSpace(e.Time) == "" {
		return ErrEmptyTime
	}
	limits := []struct {
		name  string
		value string
		max   int
	}{
		{"id", e.ID, MaxIDLength},
		{"title", e.Title, MaxTitleLength},
		{"time", e.Time, MaxTimeLength},
		{"place", e.Place, MaxPlaceLength},
		{"note", e.Note, MaxNoteLength},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return fmt.Errorf("%w: %s", ErrFieldTooLong, l.name)
		}
	}
	if _, err := ParseType(string(e.Type)); err != nil {
		return err
	}
	return nil
}

// ShareURL builds the deep link that opens the event's detail view in the app.
func ShareURL(appID, eventID string) string {
	return ShareBaseURL + appID + "?" + url.Values{"eventId": {eventID}}.Encode()
}

// EventIDFromQuery resolves the event id from a request query.
// A direct eventId wins; otherwise the nested liff.state deep-link parameter is parsed.
// POST: returns "" when neither carries a non-blank id (list mode)
func EventIDFromQuery(q url.Values) string {
	if id := strings.TrimSpace(q.Get("eventId")); id != "" {
		return id
	}
	state := q.Get("liff.state")
	if state == "" {
		return ""
	}
	state = strings.TrimLeft(state, "/")
	state = strings.TrimPrefix(state, "?")
	inner, err := url.ParseQuery(state)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(inner.Get("eventId"))
}
