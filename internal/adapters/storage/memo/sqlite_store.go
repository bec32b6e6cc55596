package memo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dugout/internal/adapters/storage"
	domain "dugout/internal/domain/memo"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  storage.SQLDB
	now func() time.Time
}

// NewSQLiteStore creates a new SQLiteStore. now supplies creation times; nil selects time.Now.
func NewSQLiteStore(db storage.SQLDB, now func() time.Time) *SQLiteStore {
	if now == nil {
		now = time.Now
	}
	return &SQLiteStore{db: db, now: now}
}

const memoColumns = `id, text, author_id, author_name, created_at`

// Create inserts a memo with a store-assigned creation time.
// PRE: entity has been validated
// POST: Returns the memo with ID and CreatedAt set
func (s *SQLiteStore) Create(ctx context.Context, m domain.Memo) (domain.Memo, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = s.now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memo (`+memoColumns+`) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Text, m.AuthorID, m.AuthorName, storage.FormatTime(m.CreatedAt))
	if err != nil {
		return domain.Memo{}, err
	}
	return m, nil
}

// GetByID retrieves a memo by ID.
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Memo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+memoColumns+` FROM memo WHERE id = ?`, id)
	m, err := scanMemo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Memo{}, fmt.Errorf("memo %s: %w", id, storage.ErrNotFound)
	}
	return m, err
}

// ListPage returns one page in (created_at DESC, id DESC) order.
// PRE: limit > 0
func (s *SQLiteStore) ListPage(ctx context.Context, after *domain.Cursor, limit int) ([]domain.Memo, error) {
	query := `SELECT ` + memoColumns + ` FROM memo`
	args := []any{}
	if after != nil {
		ts := storage.FormatTime(after.CreatedAt)
		query += ` WHERE created_at < ? OR (created_at = ? AND id < ?)`
		args = append(args, ts, ts, after.ID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memos []domain.Memo
	for rows.Next() {
		m, err := scanMemo(rows)
		if err != nil {
			return nil, err
		}
		memos = append(memos, m)
	}
	return memos, rows.Err()
}

// Delete removes a memo by ID. Removing a missing memo is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM memo WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMemo(row scanner) (domain.Memo, error) {
	var m domain.Memo
	var createdAt string
	if err := row.Scan(&m.ID, &m.Text, &m.AuthorID, &m.AuthorName, &createdAt); err != nil {
		return domain.Memo{}, err
	}
	t, err := storage.ParseTime(createdAt)
	if err != nil {
		slog.Warn("memo: failed to parse time", "memo_id", m.ID, "raw", createdAt, "error", err)
	}
	m.CreatedAt = t
	return m, nil
}
