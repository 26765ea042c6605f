// Package audit implements the query audit log: a local,
// non-authoritative SQLite record of every search invocation, written
// for diagnostics only. Driver selection is grounded verbatim on
// internal/storage's build_cgo.go and build_purego.go dual build-tag
// pattern: github.com/mattn/go-sqlite3 under -tags sqlite_vec,
// modernc.org/sqlite otherwise. Absence or corruption of the audit
// database must never affect search results: every method here degrades
// to a logged no-op on error rather than propagating into the query path.
package audit
