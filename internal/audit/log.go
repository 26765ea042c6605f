package audit

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"log"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS queries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	mode TEXT NOT NULL,
	query_hash TEXT NOT NULL,
	index_count INTEGER NOT NULL,
	hit_count INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);`

// Log is a handle to the audit database. The Log that Open returns on
// failure has no database behind it, and a nil *Log behaves the same:
// Record and Close become silent no-ops so a broken audit database never
// breaks a search.
type Log struct {
	db *sql.DB
}

// Open opens or creates the audit database at path. On any failure it
// logs a warning and returns a nil-backed Log rather than an error: the
// audit log is diagnostics-only and must never block serving queries.
func Open(path string) *Log {
	db, err := sql.Open(driverName, path)
	if err != nil {
		log.Printf("audit: open %s (%s build): %v, continuing without query audit logging", path, buildMode, err)
		return &Log{}
	}
	if _, err := db.Exec(schema); err != nil {
		log.Printf("audit: create schema: %v, continuing without query audit logging", err)
		return &Log{}
	}
	return &Log{db: db}
}

// Record appends one row describing a completed search invocation.
// Failures are logged, never returned: callers should not branch on the
// audit log's health.
func (l *Log) Record(mode, queryText string, indexCount, hitCount int, duration time.Duration) {
	if l == nil || l.db == nil {
		return
	}
	hash := fmt.Sprintf("%x", sha256.Sum256([]byte(queryText)))
	_, err := l.db.Exec(
		`INSERT INTO queries (timestamp, mode, query_hash, index_count, hit_count, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		mode, hash, indexCount, hitCount, duration.Milliseconds(),
	)
	if err != nil {
		log.Printf("audit: record query: %v", err)
	}
}

// Close releases the underlying database handle, if any.
func (l *Log) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
