package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dugout/internal/adapters/storage"
	domain "dugout/internal/domain/member"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const memberColumns = `id, name, is_active, created_at`

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM member WHERE id = ?`, id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("member %s: %w", id, storage.ErrNotFound)
	}
	return m, err
}

// Create inserts a new member.
// PRE: entity has been validated
// POST: Entity is persisted, or storage.ErrAlreadyExists when the id exists
func (s *SQLiteStore) Create(ctx context.Context, m domain.Member) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO member (`+memberColumns+`) VALUES (?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		m.ID, m.Name, boolToInt(m.IsActive), storage.FormatTime(m.CreatedAt))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("member %s: %w", m.ID, storage.ErrAlreadyExists)
	}
	return nil
}

// List returns every member ordered by id.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Member, error) {
	return s.query(ctx, `SELECT `+memberColumns+` FROM member ORDER BY id`)
}

// ListActive returns active members ordered by id.
func (s *SQLiteStore) ListActive(ctx context.Context) ([]domain.Member, error) {
	return s.query(ctx, `SELECT `+memberColumns+` FROM member WHERE is_active = 1 ORDER BY id`)
}

func (s *SQLiteStore) query(ctx context.Context, q string) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (domain.Member, error) {
	var m domain.Member
	var active int
	var createdAt string
	if err := row.Scan(&m.ID, &m.Name, &active, &createdAt); err != nil {
		return domain.Member{}, err
	}
	m.IsActive = active != 0
	if strings.TrimSpace(createdAt) != "" {
		t, err := storage.ParseTime(createdAt)
		if err != nil {
			slog.Warn("member: failed to parse time", "member_id", m.ID, "raw", createdAt, "error", err)
		}
		m.CreatedAt = t
	}
	return m, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
