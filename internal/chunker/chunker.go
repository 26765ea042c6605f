package chunker

import (
	"path/filepath"
	"strings"
)

// Fragment is the chunker's output shape: a line range tagged with the
// algorithm that produced it. internal/builder converts these into
// model.Fragment once an embedding has been attached.
type Fragment struct {
	StartLine      int
	EndLine        int
	FragmentType   string
	ChunkAlgorithm string
}

// Chunk splits text into an ordered, non-overlapping sequence of
// fragments, dispatching by the extension of path.
func Chunk(path, text string) []Fragment {
	ext := strings.ToLower(filepath.Ext(path))
	var frags []Fragment
	switch {
	case isMarkdownExt(ext):
		frags = Markdown(text)
	case sourceKeywords(ext) != nil:
		frags = Source(text, sourceKeywords(ext), langTag(ext))
	default:
		frags = Simple(text)
	}
	if len(frags) == 0 {
		frags = Simple(text)
	}
	return frags
}

func isMarkdownExt(ext string) bool {
	switch ext {
	case ".md", ".markdown", ".mdx":
		return true
	default:
		return false
	}
}

// sourceKeywords returns the routine-start keyword set for a recognized
// source extension, or nil when ext isn't one the source chunker handles.
func sourceKeywords(ext string) []string {
	switch ext {
	case ".nim":
		return []string{"proc", "method", "func", "iterator", "template", "macro"}
	case ".go":
		return []string{"func"}
	case ".py":
		return []string{"def", "class"}
	case ".rs":
		return []string{"fn", "impl", "trait"}
	default:
		return nil
	}
}

// langTag returns the chunkAlgorithm tag for the source chunker given the
// file extension, matching the per-language naming this module calls for
// (the reference implementation's "nim" is one instance of this family).
func langTag(ext string) string {
	switch strings.ToLower(ext) {
	case ".nim":
		return "nim"
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".rs":
		return "rust"
	default:
		return "source"
	}
}
