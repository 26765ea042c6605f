// Package builder implements the full index build: walk a root, apply
// include/exclude filters, chunk each file, embed fragments, and
// assemble an in-memory model.Index. Grounded on
// internal/indexer.indexFiles/indexBatch (errgroup-based bounded-worker
// batch processing), generalized from SQL-transaction batches to pure
// in-memory map assembly.
package builder
