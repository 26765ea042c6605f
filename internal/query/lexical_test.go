package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvine/flatindex/pkg/model"
)

func TestResolveFileExactAndSuffix(t *testing.T) {
	idx := model.NewFolderIndex("/root")
	idx.Files["/root/a/b.go"] = &model.File{Path: "/root/a/b.go", Filename: "b.go"}

	require.NotNil(t, resolveFile(idx, "/root/a/b.go"))
	require.NotNil(t, resolveFile(idx, "a/b.go"))
	require.Nil(t, resolveFile(idx, "nonexistent.go"))
}

func TestLexicalSearchMissingBinaryYieldsEmpty(t *testing.T) {
	// rg is not assumed to be on PATH in the test environment; a spawn
	// failure must yield empty results rather than an error or panic.
	idx := model.NewFolderIndex("/nonexistent-root-for-test")
	hits := LexicalSearch(context.Background(), idx, "pattern", true, 10)
	require.Empty(t, hits)
}
