package storage

import (
	"time"

	"dugout/internal/domain/errs"
)

// Errors shared by every store implementation.
var (
	ErrNotFound      = errs.ErrNotFound
	ErrAlreadyExists = errs.ErrAlreadyExists
)

// TimeLayout is the fixed-width UTC layout used for SQLite timestamps.
// Fixed width keeps lexical and chronological order identical.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t for a SQLite TEXT column.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a timestamp written by FormatTime.
func ParseTime(raw string) (time.Time, error) {
	return time.Parse(TimeLayout, raw)
}
