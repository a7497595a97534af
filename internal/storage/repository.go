package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"tracker/internal/core"

	_ "modernc.org/sqlite"
)

// JournalEntry is one persisted summary emission.
type JournalEntry struct {
	ID        int64
	Summary   core.Summary
	EmittedAt time.Time
}

// SQLiteRepository journals every emitted summary. Expenses themselves are
// never written here.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := MigrateJournal(dbPath)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("Summary journal ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Emit implements sink.Sink.
func (r *SQLiteRepository) Emit(ctx context.Context, s core.Summary) error {
	emittedAt := r.now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO summary_journal (label, total, fired_at, emitted_at) VALUES (?, ?, ?, ?)`,
		s.Label,
		s.Total.String(),
		s.FiredAt.UTC().Format(time.RFC3339Nano),
		emittedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}

	id, _ := res.LastInsertId()
	slog.InfoContext(ctx, "Summary journaled to SQLite",
		"id", id,
		"trigger", s.Label,
		"total", s.Total.String(),
		"fired_at", s.FiredAt)
	return nil
}

// ListSummaries returns the most recent journal entries, newest first.
// A non-positive limit returns every entry.
func (r *SQLiteRepository) ListSummaries(ctx context.Context, limit int) ([]JournalEntry, error) {
	query := `SELECT id, label, total, fired_at, emitted_at FROM summary_journal ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var (
			e                         JournalEntry
			total, firedAt, emittedAt string
		)
		if err := rows.Scan(&e.ID, &e.Summary.Label, &total, &firedAt, &emittedAt); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		if e.Summary.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parse total %q: %w", total, err)
		}
		if e.Summary.FiredAt, err = time.Parse(time.RFC3339Nano, firedAt); err != nil {
			return nil, fmt.Errorf("parse fired_at %q: %w", firedAt, err)
		}
		if e.EmittedAt, err = time.Parse(time.RFC3339Nano, emittedAt); err != nil {
			return nil, fmt.Errorf("parse emitted_at %q: %w", emittedAt, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	return out, nil
}
