// Package updater implements the incremental update algorithm: load the
// prior index, diff it against the current filesystem state using an
// mtime fast path backed by an authoritative SHA-256 check, and rebuild
// only the files that changed. Grounded on 2502227359-picoclaw's
// pkg/rag/indexer.go (load-state / diff / rebuild shape, adapted here
// from an external vector-DB's JSON state file onto the codec-backed
// in-memory model.Index) and on internal/indexer.go's checkFileChanged
// skip-if-hash-matches logic.
package updater
