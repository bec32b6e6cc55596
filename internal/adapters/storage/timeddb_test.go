package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"dugout/internal/adapters/http/perf"
)

func openTimedTestDB(t *testing.T) (*TimedDB, *perf.Collector) {
	t.Helper()
	db := openTestDB(t)
	if _, err := db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	collector := perf.NewCollector(100)
	return NewTimedDB(db, NewOpTimer(collector, time.Second)), collector
}

// TestTimedDB_RecordsEveryCall verifies each wrapped method records one store entry.
func TestTimedDB_RecordsEveryCall(t *testing.T) {
	tdb, collector := openTimedTestDB(t)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	rows, err := tdb.QueryContext(ctx, "SELECT id, val FROM test")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	rows.Close()

	var val string
	if err := tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "1").Scan(&val); err != nil || val != "hello" {
		t.Fatalf("QueryRowContext: %q, %v", val, err)
	}
	tx, err := tdb.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	tx.Rollback()

	if collector.TotalRecorded() != 4 {
		t.Errorf("TotalRecorded = %d, want 4", collector.TotalRecorded())
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowStoreOps) != 4 {
		t.Errorf("expected 4 distinct store ops, got %+v", snap.SlowStoreOps)
	}
}

// TestTimedDB_ErrorPassthrough verifies SQL errors are returned unchanged and counted as failures.
func TestTimedDB_ErrorPassthrough(t *testing.T) {
	tdb, collector := openTimedTestDB(t)

	_, err := tdb.ExecContext(context.Background(), "INSERT INTO nonexistent_table VALUES (?)", 1)
	if err == nil {
		t.Fatal("expected error from invalid SQL, got nil")
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowStoreOps) != 1 || snap.SlowStoreOps[0].Errors != 1 {
		t.Errorf("expected one failed op, got %+v", snap.SlowStoreOps)
	}
}

// TestTimedDB_NoRowsIsNotAFailure keeps lookups of missing rows out of the error count.
func TestTimedDB_NoRowsIsNotAFailure(t *testing.T) {
	tdb, collector := openTimedTestDB(t)

	var val string
	err := tdb.QueryRowContext(context.Background(), "SELECT val FROM test WHERE id = ?", "missing").Scan(&val)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if snap.SlowStoreOps[0].Errors != 0 {
		t.Errorf("no-rows lookup counted as failure: %+v", snap.SlowStoreOps[0])
	}
}

func TestTimedDB_CancelledContext(t *testing.T) {
	tdb, collector := openTimedTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello"); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

func TestOpTimer_NilIsSafe(t *testing.T) {
	var timer *OpTimer
	done := timer.Start("anything")
	done(errors.New("boom"))
}

func TestNewOpTimer_DefaultThreshold(t *testing.T) {
	if got := NewOpTimer(nil, 0).threshold; got != DefaultSlowOp {
		t.Errorf("threshold = %v, want %v", got, DefaultSlowOp)
	}
}
