package model

import "testing"

func TestFileValidateRejectsOverlap(t *testing.T) {
	f := File{Path: "/a.txt", Fragments: []Fragment{
		{StartLine: 1, EndLine: 10, ChunkAlgorithm: "simple"},
		{StartLine: 5, EndLine: 20, ChunkAlgorithm: "simple"},
	}}
	if err := f.Validate(); err == nil {
		t.Fatal("expected overlap error")
	}
}

func TestFileValidateAllowsMultipleAlgorithms(t *testing.T) {
	f := File{Path: "/a.md", Fragments: []Fragment{
		{StartLine: 1, EndLine: 5, ChunkAlgorithm: "markdown"},
		{StartLine: 1, EndLine: 5, ChunkAlgorithm: "simple"},
	}}
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
