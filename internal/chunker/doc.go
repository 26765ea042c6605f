// Package chunker turns file text into an ordered sequence of non-overlapping
// fragments tagged with an algorithm name. Three chunkers are provided:
//
//   - Simple: a generic line-budget chunker with blob-line isolation, used
//     as the fallback for any extension not handled more specifically.
//   - Markdown: header-boundary sections, same blob isolation.
//   - Source: routine-keyword-based blocks for source-code extensions,
//     configured per language via a keyword table.
//
// Dispatch selects a chunker by file extension and falls back to Simple
// when the selected chunker returns no fragments.
package chunker
