package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"dugout/internal/adapters/storage"
	domain "dugout/internal/domain/attendance"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const attendanceColumns = `event_id, line_user_id, status, updated_at`

// Upsert inserts or updates the record for (EventID, MemberID).
// PRE: entity has been validated
// POST: exactly one row exists for the pair
func (s *SQLiteStore) Upsert(ctx context.Context, a domain.Attendance) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (id, `+attendanceColumns+`) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status=excluded.status, updated_at=excluded.updated_at`,
		domain.DocID(a.EventID, a.MemberID), a.EventID, a.MemberID, string(a.Status), storage.FormatTime(a.UpdatedAt))
	return err
}

// Get retrieves the record for one member and event.
// POST: storage.ErrNotFound when the member never answered
func (s *SQLiteStore) Get(ctx context.Context, eventID, memberID string) (domain.Attendance, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE id = ?`, domain.DocID(eventID, memberID))
	a, err := scanAttendance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attendance{}, fmt.Errorf("attendance %s: %w", domain.DocID(eventID, memberID), storage.ErrNotFound)
	}
	return a, err
}

// List returns every record.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Attendance, error) {
	return s.query(ctx, `SELECT `+attendanceColumns+` FROM attendance ORDER BY id`)
}

// ListByEvent returns the records of one event.
func (s *SQLiteStore) ListByEvent(ctx context.Context, eventID string) ([]domain.Attendance, error) {
	return s.query(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE event_id = ? ORDER BY id`, eventID)
}

// ListByMember returns the records of one member.
func (s *SQLiteStore) ListByMember(ctx context.Context, memberID string) ([]domain.Attendance, error) {
	return s.query(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE line_user_id = ? ORDER BY id`, memberID)
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]domain.Attendance, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row scanner) (domain.Attendance, error) {
	var a domain.Attendance
	var status, updatedAt string
	if err := row.Scan(&a.EventID, &a.MemberID, &status, &updatedAt); err != nil {
		return domain.Attendance{}, err
	}
	a.Status = domain.Status(status)
	t, err := storage.ParseTime(updatedAt)
	if err != nil {
		slog.Warn("attendance: failed to parse time", "event_id", a.EventID, "member_id", a.MemberID, "raw", updatedAt, "error", err)
	}
	a.UpdatedAt = t
	return a, nil
}
