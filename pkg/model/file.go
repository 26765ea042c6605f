package model

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
)

// File is a single tracked file: its identity, content hash, filesystem
// times, and the ordered sequence of fragments chunked from its text.
type File struct {
	Path         string
	Filename     string
	Hash         [32]byte
	CreationTime float64
	LastModified float64
	Fragments    []Fragment
}

// NewFile builds a File record, computing Hash from the full file bytes
// and Filename from Path.
func NewFile(path string, content []byte, creationTime, lastModified float64) File {
	return File{
		Path:         path,
		Filename:     filepath.Base(path),
		Hash:         sha256.Sum256(content),
		CreationTime: creationTime,
		LastModified: lastModified,
	}
}

// Validate checks that fragments are ordered by StartLine and that
// fragments sharing a ChunkAlgorithm do not overlap.
func (f File) Validate() error {
	lastEndByAlgo := map[string]int{}
	prevStart := 0
	for i, frag := range f.Fragments {
		if frag.StartLine < prevStart {
			return fmt.Errorf("%w: file %s fragment %d out of order", ErrInvalidArgument, f.Path, i)
		}
		prevStart = frag.StartLine
		if last, ok := lastEndByAlgo[frag.ChunkAlgorithm]; ok && frag.StartLine <= last {
			return fmt.Errorf("%w: file %s overlapping %s fragments", ErrInvalidArgument, f.Path, frag.ChunkAlgorithm)
		}
		lastEndByAlgo[frag.ChunkAlgorithm] = frag.EndLine
	}
	return nil
}
