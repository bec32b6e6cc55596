package event

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"dugout/internal/adapters/storage"
	domain "dugout/internal/domain/event"
	"dugout/internal/domain/lineup"
)

// SQLiteStore implements Store using SQLite. The lineup is a JSON column.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const eventColumns = `id, title, date, time, place, note, type, lineup`

// GetByID retrieves an event by ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM event WHERE id = ?`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
	}
	return e, err
}

// List returns every event ordered by date, then id.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM event ORDER BY date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// SaveDetails inserts or updates the detail columns.
// PRE: entity has been validated
// POST: detail fields persisted; lineup column unchanged for existing rows
func (s *SQLiteStore) SaveDetails(ctx context.Context, e domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event (id, title, date, time, place, note, type)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, date=excluded.date, time=excluded.time,
		   place=excluded.place, note=excluded.note, type=excluded.type`,
		e.ID, e.Title, e.Date, e.Time, e.Place, e.Note, string(e.Type))
	return err
}

// SaveLineup replaces the lineup of an existing event.
// POST: storage.ErrNotFound when no event has eventID
func (s *SQLiteStore) SaveLineup(ctx context.Context, eventID string, l lineup.Lineup) error {
	raw, err := json.Marshal(toRecord(l))
	if err != nil {
		return fmt.Errorf("encode lineup: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE event SET lineup = ? WHERE id = ?`, string(raw), eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	return nil
}

// DeleteCascade removes the event and its attendance in one transaction.
// POST: storage.ErrNotFound (and nothing removed) when no event has eventID
func (s *SQLiteStore) DeleteCascade(ctx context.Context, eventID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM event WHERE id = ?`, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	res, err = tx.ExecContext(ctx, `DELETE FROM attendance WHERE event_id = ?`, eventID)
	if err != nil {
		return err
	}
	removed, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("event_store", "op", "delete_cascade", "event_id", eventID, "attendance_removed", removed)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (domain.Event, error) {
	var e domain.Event
	var typ string
	var rawLineup sql.NullString
	if err := row.Scan(&e.ID, &e.Title, &e.Date, &e.Time, &e.Place, &e.Note, &typ, &rawLineup); err != nil {
		return domain.Event{}, err
	}
	e.Type = domain.Type(typ)
	if rawLineup.Valid && rawLineup.String != "" {
		var rec lineupRecord
		if err := json.Unmarshal([]byte(rawLineup.String), &rec); err != nil {
			slog.Warn("event: failed to decode lineup", "event_id", e.ID, "error", err)
		} else {
			e.Lineup = fromRecord(e.ID, rec)
		}
	}
	return e, nil
}
