//go:build purego || !sqlite_vec
// +build purego !sqlite_vec

package audit

// This file is compiled when building without the sqlite_vec tag or with
// the purego tag.
//
// Build command:
//   CGO_ENABLED=0 go build -tags "purego" ./...
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// driverName is the SQLite driver to use for the audit database.
	driverName = "sqlite"

	// buildMode describes the current build configuration.
	buildMode = "purego"
)
