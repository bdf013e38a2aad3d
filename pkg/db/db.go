package db

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rotisserie/eris"

	"github.com/marcusziade/gpqatracker/pkg/models"
)

const upsertSQL = `
		INSERT INTO scores (model, provider, score, as_of, source, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(model) DO UPDATE SET
			provider = excluded.provider,
			score = excluded.score,
			as_of = excluded.as_of,
			source = excluded.source,
			updated_at = excluded.updated_at
	`

// DB mirrors the current score store into SQLite
type DB struct {
	db *sql.DB
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, eris.Wrap(err, "db: open")
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "db: ping")
	}

	return &DB{db: db}, nil
}

// InitSchema initializes the database schema
func (d *DB) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scores (
		model TEXT PRIMARY KEY,
		provider TEXT NOT NULL,
		score REAL NOT NULL,
		as_of TEXT NOT NULL,
		source TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scores_provider ON scores (provider);
	`

	if _, err := d.db.Exec(schema); err != nil {
		return eris.Wrap(err, "db: create schema")
	}

	return nil
}

// SyncStore upserts every record of s in a single transaction
func (d *DB) SyncStore(s models.Store) error {
	tx, err := d.db.Begin()
	if err != nil {
		return eris.Wrap(err, "db: begin")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(upsertSQL)
	if err != nil {
		return eris.Wrap(err, "db: prepare upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range s {
		if _, err := stmt.Exec(r.Model, r.Provider, r.Score, r.AsOf, r.Source, now); err != nil {
			return eris.Wrapf(err, "db: upsert %s", r.Model)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "db: commit")
	}
	return nil
}

// ListRecords returns all records ordered by score, highest first
func (d *DB) ListRecords() ([]models.ScoreRecord, error) {
	rows, err := d.db.Query(`
		SELECT model, provider, score, as_of, source
		FROM scores
		ORDER BY score DESC, model ASC
	`)
	if err != nil {
		return nil, eris.Wrap(err, "db: query scores")
	}
	defer rows.Close()

	records := []models.ScoreRecord{}
	for rows.Next() {
		var r models.ScoreRecord
		if err := rows.Scan(&r.Model, &r.Provider, &r.Score, &r.AsOf, &r.Source); err != nil {
			return nil, eris.Wrap(err, "db: scan score")
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "db: iterate scores")
	}

	return records, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}
