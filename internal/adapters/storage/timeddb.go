package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"dugout/internal/adapters/http/perf"
)

// SQLDB is the database interface used by all SQLite stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowOp is the default threshold for slow store operation warnings.
const DefaultSlowOp = 50 * time.Millisecond

// OpTimer logs slow store operations and records every operation to a collector.
// A nil *OpTimer is valid and does nothing.
type OpTimer struct {
	collector *perf.Collector
	threshold time.Duration
}

// NewOpTimer creates a timer. A non-positive threshold selects DefaultSlowOp.
func NewOpTimer(collector *perf.Collector, threshold time.Duration) *OpTimer {
	if threshold <= 0 {
		threshold = DefaultSlowOp
	}
	return &OpTimer{collector: collector, threshold: threshold}
}

// Start begins timing op and returns the function that finishes it.
// Usage: done := t.Start("events.Get"); ...; done(err)
func (o *OpTimer) Start(op string) func(err error) {
	if o == nil {
		return func(error) {}
	}
	start := time.Now()
	return func(err error) {
		o.observe(op, start, err)
	}
}

func (o *OpTimer) observe(op string, start time.Time, err error) {
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000.0

	if elapsed >= o.threshold {
		slog.Warn("slow_store_op", "op", op, "duration_ms", durationMs, "failed", err != nil)
	} else {
		slog.Debug("store_op", "op", op, "duration_ms", durationMs)
	}

	if o.collector != nil {
		o.collector.Record(perf.Entry{
			Kind:       perf.KindStore,
			Name:       op,
			Failed:     err != nil && err != sql.ErrNoRows,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// TimedDB wraps a *sql.DB to log slow queries and record them to a collector.
type TimedDB struct {
	db    *sql.DB
	timer *OpTimer
}

var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps a *sql.DB with timing instrumentation.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that logs slow queries and records to the timer's collector
func NewTimedDB(db *sql.DB, timer *OpTimer) *TimedDB {
	return &TimedDB{db: db, timer: timer}
}

// RawDB returns the underlying *sql.DB (needed for schema setup and pool config).
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// ExecContext wraps sql.DB.ExecContext with timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	done := t.timer.Start("sqlite.Exec")
	result, err := t.db.ExecContext(ctx, query, args...)
	done(err)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	done := t.timer.Start("sqlite.Query")
	rows, err := t.db.QueryContext(ctx, query, args...)
	done(err)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	done := t.timer.Start("sqlite.QueryRow")
	row := t.db.QueryRowContext(ctx, query, args...)
	done(row.Err())
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	done := t.timer.Start("sqlite.BeginTx")
	tx, err := t.db.BeginTx(ctx, opts)
	done(err)
	return tx, err
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}
