// Package query implements the query engine: semantic search ranks
// fragment embeddings against a query vector using internal/similarity;
// lexical search shells out to ripgrep and parses its NDJSON output.
// Both single-index and multi-index (merge-then-truncate) variants are
// provided. Grounded structurally on internal/searcher.Searcher; this
// package runs each search sequentially and keeps no result cache, and
// the RRF/BM25 fusion in searcher.go is not carried over since these
// modes merge by a simple sort key, not score fusion (see DESIGN.md).
package query
