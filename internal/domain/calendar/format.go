package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the layout of a stored event date.
const DateLayout = "2006-01-02"

// Day classes used to highlight weekend rows.
const (
	ClassSunday   = "is-sun"
	ClassSaturday = "is-sat"
)

// weekdaySymbols are indexed by time.Weekday (Sunday first).
var weekdaySymbols = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// ParseEventDate reads the first ten characters of raw as YYYY-MM-DD in loc.
// Anything after the date (older records carry a "(日)" suffix) is ignored.
// PRE: loc is non-nil
// POST: ok is false when raw does not start with a valid calendar date
func ParseEventDate(raw string, loc *time.Location) (t time.Time, ok bool) {
	if len(raw) < len(DateLayout) {
		return time.Time{}, false
	}
	parsed, err := time.ParseInLocation(DateLayout, raw[:len(DateLayout)], loc)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// Midnight returns the start of the calendar day containing now, in loc.
func Midnight(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// IsPast reports whether the event date lies strictly before today.
// today must be a local midnight (see Midnight). An event dated today is not past.
// POST: valid is false when raw cannot be parsed; past is then false as well
func IsPast(raw string, today time.Time) (past bool, valid bool) {
	d, ok := ParseEventDate(raw, today.Location())
	if !ok {
		return false, false
	}
	return d.Before(today), true
}

// FormatDateWithWeekday renders "2025-12-21(日)".
// Unparsable input is returned unchanged so nothing the admin typed is lost.
func FormatDateWithWeekday(raw string, loc *time.Location) string {
	if raw == "" {
		return ""
	}
	d, ok := ParseEventDate(raw, loc)
	if !ok {
		return raw
	}
	return fmt.Sprintf("%s(%s)", d.Format(DateLayout), weekdaySymbols[d.Weekday()])
}

// SplitDisplayDate splits a date into the two lines of the list's date column:
// the year ("2025") and the month-day with weekday ("12-21(日)").
// Unparsable input goes entirely into monthDay.
func SplitDisplayDate(raw string, loc *time.Location) (year, monthDay string) {
	d, ok := ParseEventDate(raw, loc)
	if !ok {
		return "", raw
	}
	return d.Format("2006"), fmt.Sprintf("%s(%s)", d.Format("01-02"), weekdaySymbols[d.Weekday()])
}

// WeekdayIndex returns 0 for Sunday through 6 for Saturday.
func WeekdayIndex(raw string, loc *time.Location) (int, bool) {
	d, ok := ParseEventDate(raw, loc)
	if !ok {
		return 0, false
	}
	return int(d.Weekday()), true
}

// DayClass returns the visual class for weekend dates, or "" for weekdays and bad dates.
func DayClass(raw string, loc *time.Location) string {
	idx, ok := WeekdayIndex(raw, loc)
	if !ok {
		return ""
	}
	switch time.Weekday(idx) {
	case time.Sunday:
		return ClassSunday
	case time.Saturday:
		return ClassSaturday
	}
	return ""
}

// FormatDateTime renders a timestamp as "MM/DD HH:MM" in loc. The zero time renders as "".
func FormatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("01/02 15:04")
}
