// Package store persists banner tables to SQLite and CSV.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/ccollicutt/gachalog/pkg/banner"
	"github.com/ccollicutt/gachalog/pkg/timeline"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS banner_records (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    version           TEXT    NOT NULL,
    phase             TEXT    NOT NULL,
    character         TEXT    NOT NULL,
    wish_count        INTEGER NOT NULL,
    days_since_launch INTEGER NOT NULL,
    major_version     INTEGER NOT NULL,
    rerun_interval    INTEGER,
    rerun_count       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS banner_records_character ON banner_records(character, days_since_launch);
`

// DB is a SQLite-backed banner table.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Save replaces the stored table with records.
func (d *DB) Save(ctx context.Context, records []banner.Record) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM banner_records"); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO banner_records
		    (version, phase, character, wish_count, days_since_launch, major_version, rerun_interval, rerun_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		var interval sql.NullInt64
		if r.RerunInterval != nil {
			interval = sql.NullInt64{Int64: int64(*r.RerunInterval), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			r.Version.String(), string(r.Phase), r.Character, r.WishCount,
			r.DaysSinceLaunch, r.MajorVersion, interval, r.RerunCount,
		); err != nil {
			return fmt.Errorf("insert %s (%s %s): %w", r.Character, r.Version, r.Phase, err)
		}
	}

	return tx.Commit()
}

// Load returns all stored records in insertion order.
func (d *DB) Load(ctx context.Context) ([]banner.Record, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT version, phase, character, wish_count, days_since_launch, major_version, rerun_interval, rerun_count
		FROM banner_records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]banner.Record, 0)
	for rows.Next() {
		var (
			r        banner.Record
			version  string
			phase    string
			interval sql.NullInt64
		)
		if err := rows.Scan(&version, &phase, &r.Character, &r.WishCount,
			&r.DaysSinceLaunch, &r.MajorVersion, &interval, &r.RerunCount); err != nil {
			return nil, err
		}

		if r.Version, err = timeline.ParseVersion(version); err != nil {
			return nil, fmt.Errorf("row %d: %w", len(records)+1, err)
		}
		if r.Phase, err = banner.ParsePhase(phase); err != nil {
			return nil, fmt.Errorf("row %d: %w", len(records)+1, err)
		}
		if interval.Valid {
			n := int(interval.Int64)
			r.RerunInterval = &n
		}

		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM banner_records").Scan(&n)
	return n, err
}
