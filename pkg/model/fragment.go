package model

import (
	"crypto/sha256"
	"fmt"
)

// Fragment is a contiguous, 1-based, inclusive line range of a single file
// with an attached embedding and chunking metadata.
type Fragment struct {
	StartLine      int
	EndLine        int
	Embedding      []float32
	FragmentType   string
	Model          string
	ChunkAlgorithm string
	Task           Task
	Private        bool
	ContentScore   int
	Hash           [32]byte
}

// NewFragment builds a Fragment from raw text and its source line range,
// computing Hash from text. Embedding is left nil; attach it separately
// once the embedding client has produced a vector.
func NewFragment(startLine, endLine int, text, fragmentType, chunkAlgorithm string) (Fragment, error) {
	if startLine < 1 || endLine < startLine {
		return Fragment{}, fmt.Errorf("%w: line range [%d,%d]", ErrInvalidArgument, startLine, endLine)
	}
	return Fragment{
		StartLine:      startLine,
		EndLine:        endLine,
		FragmentType:   fragmentType,
		ChunkAlgorithm: chunkAlgorithm,
		Hash:           sha256.Sum256([]byte(text)),
	}, nil
}

// Validate checks the required invariants: the line range is
// well formed, and whenever Embedding is non-empty its length matches dim,
// the dimension fixed by Model.
func (f Fragment) Validate(dim int) error {
	if f.StartLine < 1 || f.EndLine < f.StartLine {
		return fmt.Errorf("%w: line range [%d,%d]", ErrInvalidArgument, f.StartLine, f.EndLine)
	}
	if len(f.Embedding) != 0 && dim > 0 && len(f.Embedding) != dim {
		return fmt.Errorf("%w: embedding dimension %d, expected %d", ErrInvalidArgument, len(f.Embedding), dim)
	}
	return nil
}
