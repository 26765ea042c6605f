//go:build sqlite_vec
// +build sqlite_vec

package audit

// This file is compiled when building with CGO and the sqlite_vec tag.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "sqlite_vec" ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// driverName is the SQLite driver to use for the audit database.
	driverName = "sqlite3"

	// buildMode describes the current build configuration.
	buildMode = "cgo"
)
