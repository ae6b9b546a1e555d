package buildstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a Store backed by a single SQLite database, on disk
// or in memory.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) a SQLite database at path.
// Pass ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS build (
    source TEXT NOT NULL,
    blob_path TEXT NOT NULL,
    blob_sha256 TEXT NOT NULL,
    built_at TIMESTAMP NOT NULL,
    stop_count INTEGER NOT NULL,
    connection_count INTEGER NOT NULL,
    PRIMARY KEY (source, blob_sha256)
);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating build table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) RecordBuild(rec BuildRecord) error {
	_, err := s.db.Exec(`
INSERT INTO build (source, blob_path, blob_sha256, built_at, stop_count, connection_count)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (source, blob_sha256) DO UPDATE SET
    blob_path = excluded.blob_path,
    built_at = excluded.built_at,
    stop_count = excluded.stop_count,
    connection_count = excluded.connection_count`,
		rec.Source, rec.BlobPath, rec.BlobSHA256, rec.BuiltAt, rec.StopCount, rec.ConnectionCount)
	if err != nil {
		return fmt.Errorf("recording build: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LatestBuild(source string) (*BuildRecord, error) {
	row := s.db.QueryRow(`
SELECT source, blob_path, blob_sha256, built_at, stop_count, connection_count
FROM build
WHERE source = ?
ORDER BY built_at DESC
LIMIT 1`, source)

	var rec BuildRecord
	var builtAt time.Time
	err := row.Scan(&rec.Source, &rec.BlobPath, &rec.BlobSHA256, &builtAt, &rec.StopCount, &rec.ConnectionCount)
	if err == sql.ErrNoRows {
		return nil, ErrNoBuild
	}
	if err != nil {
		return nil, fmt.Errorf("scanning latest build: %w", err)
	}
	rec.BuiltAt = builtAt

	return &rec, nil
}

func (s *SQLiteStore) ListBuilds(source string) ([]BuildRecord, error) {
	rows, err := s.db.Query(`
SELECT source, blob_path, blob_sha256, built_at, stop_count, connection_count
FROM build
WHERE source = ?
ORDER BY built_at DESC`, source)
	if err != nil {
		return nil, fmt.Errorf("listing builds: %w", err)
	}
	defer rows.Close()

	var recs []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		if err := rows.Scan(&rec.Source, &rec.BlobPath, &rec.BlobSHA256, &rec.BuiltAt, &rec.StopCount, &rec.ConnectionCount); err != nil {
			return nil, fmt.Errorf("scanning build: %w", err)
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}
