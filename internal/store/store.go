// Package store implements the persistent SqliteIndex. It durably
// holds everything the in-memory CodeIndex (internal/index) holds, plus
// file mtimes/hashes for staleness detection, and answers the pattern,
// fuzzy, ranked, and per-file queries that would be expensive to run over
// plain Go maps.
package store

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaVersion is bumped whenever schemaDDL changes shape. A mismatch
// against the stored value in the metadata table triggers the corruption
// policy: discard and rebuild from source.
const SchemaVersion = 2

// Store is the SQLite data access layer backing one project's persistent
// index: files, symbols, symbol_bases, references, opens, plus a
// symbols_fts full-text table and a metadata table.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at path with WAL mode
// enabled. Create is idempotent: an
// already-populated database is left alone beyond running the
// CREATE-IF-NOT-EXISTS migration.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Create opens path, creating an empty schema if the file does not already
// exist. It is the entry point `rocketindex index` uses for a fresh
// project; Open is used by everything else (register, query).
func Create(path string) (*Store, error) {
	return Open(path)
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for callers that need raw access.
func (s *Store) DB() *sql.DB {
	return s.db
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
	path           TEXT PRIMARY KEY,
	language       TEXT NOT NULL,
	mtime          INTEGER NOT NULL,
	hash           TEXT NOT NULL,
	last_parsed_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS symbols (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	qualified  TEXT NOT NULL,
	kind       TEXT NOT NULL,
	language   TEXT NOT NULL,
	visibility TEXT NOT NULL,
	file       TEXT NOT NULL REFERENCES files(path),
	start_line INTEGER NOT NULL,
	start_col  INTEGER NOT NULL,
	end_line   INTEGER NOT NULL,
	end_col    INTEGER NOT NULL,
	signature  TEXT,
	doc        TEXT,
	parent     TEXT,
	sig_hash   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS symbol_bases (
	symbol_id     INTEGER NOT NULL REFERENCES symbols(id),
	base_qualified TEXT NOT NULL,
	relation      TEXT NOT NULL DEFAULT 'implements'
);

CREATE TABLE IF NOT EXISTS references_ (
	file     TEXT NOT NULL REFERENCES files(path),
	name     TEXT NOT NULL,
	line     INTEGER NOT NULL,
	col      INTEGER NOT NULL,
	end_line INTEGER NOT NULL,
	end_col  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS opens (
	file   TEXT NOT NULL REFERENCES files(path),
	module TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_symbols_qualified ON symbols(qualified);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file);
CREATE INDEX IF NOT EXISTS idx_symbol_bases_symbol ON symbol_bases(symbol_id);
CREATE INDEX IF NOT EXISTS idx_references_name ON references_(name);
CREATE INDEX IF NOT EXISTS idx_references_file ON references_(file);
CREATE INDEX IF NOT EXISTS idx_opens_file ON opens(file);

CREATE VIRTUAL TABLE IF NOT EXISTS symbols_fts USING fts5(
	name, qualified, content='symbols', content_rowid='id'
);

CREATE TRIGGER IF NOT EXISTS symbols_ai AFTER INSERT ON symbols BEGIN
	INSERT INTO symbols_fts(rowid, name, qualified) VALUES (new.id, new.name, new.qualified);
END;
CREATE TRIGGER IF NOT EXISTS symbols_ad AFTER DELETE ON symbols BEGIN
	INSERT INTO symbols_fts(symbols_fts, rowid, name, qualified) VALUES('delete', old.id, old.name, old.qualified);
END;
`

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	stored, err := s.GetMetadata("schema_version")
	if err != nil {
		return fmt.Errorf("store: read schema_version: %w", err)
	}
	want := fmt.Sprintf("%d", SchemaVersion)
	if stored == want {
		return nil
	}
	if stored != "" {
		// Schema mismatch: discard in place and start fresh, the same
		// policy as a failed integrity check. The caller rebuilds from
		// source on the next index run.
		if err := s.reset(); err != nil {
			return fmt.Errorf("store: reset on schema mismatch: %w", err)
		}
	}
	return s.SetMetadata("schema_version", want)
}

// reset drops every table and recreates the current schema, losing all
// indexed data.
func (s *Store) reset() error {
	for _, stmt := range []string{
		"DROP TRIGGER IF EXISTS symbols_ai",
		"DROP TRIGGER IF EXISTS symbols_ad",
		"DROP TABLE IF EXISTS symbols_fts",
		"DROP TABLE IF EXISTS symbol_bases",
		"DROP TABLE IF EXISTS references_",
		"DROP TABLE IF EXISTS opens",
		"DROP TABLE IF EXISTS symbols",
		"DROP TABLE IF EXISTS files",
		"DROP TABLE IF EXISTS metadata",
	} {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(schemaDDL)
	return err
}

// GetMetadata returns the value for key, or "" if absent.
func (s *Store) GetMetadata(key string) (string, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// SetMetadata upserts key -> value.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO metadata(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Integrity runs SQLite's PRAGMA integrity_check and reports whether the
// database passed. Callers use this at open time; on failure, the index
// is discarded and rebuilt from source.
func (s *Store) Integrity() (bool, error) {
	var result string
	if err := s.db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return false, err
	}
	return result == "ok", nil
}

// Discard closes the store and removes its backing file, for the
// corruption-recovery path.
func Discard(path string, s *Store) error {
	if s != nil {
		s.Close()
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
