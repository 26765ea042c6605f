package model

import "testing"

func TestNewFragmentRejectsBadRange(t *testing.T) {
	if _, err := NewFragment(5, 3, "x", "document", "simple"); err == nil {
		t.Fatal("expected error for endLine < startLine")
	}
	if _, err := NewFragment(0, 1, "x", "document", "simple"); err == nil {
		t.Fatal("expected error for startLine < 1")
	}
}

func TestFragmentValidateDimension(t *testing.T) {
	f, err := NewFragment(1, 1, "hello", "document", "simple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.Embedding = make([]float32, 4)
	if err := f.Validate(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Validate(8); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}
