package updater

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corvine/flatindex/internal/builder"
	"github.com/corvine/flatindex/internal/lockset"
	"github.com/corvine/flatindex/pkg/model"
)

func cfgFor(dir string) builder.Config {
	return builder.Config{
		Root:           dir,
		Kind:           model.KindFolder,
		EmbeddingModel: "test-model",
	}
}

func TestIncrementalReindex(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.txt")
	bPath := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(aPath, []byte("alpha\n"), 0o644))
	require.NoError(t, os.WriteFile(bPath, []byte("beta\n"), 0o644))

	indexPath := filepath.Join(t.TempDir(), "idx.flat")
	var locks lockset.Set

	idx, changed, err := Update(context.Background(), indexPath, cfgFor(dir), &locks)
	require.NoError(t, err)
	require.True(t, changed)
	require.Len(t, idx.Files, 2)

	require.NoError(t, os.Remove(aPath))
	time.Sleep(1100 * time.Millisecond)
	require.NoError(t, os.WriteFile(bPath, []byte("beta modified\n"), 0o644))

	idx2, changed2, err := Update(context.Background(), indexPath, cfgFor(dir), &locks)
	require.NoError(t, err)
	require.True(t, changed2)
	require.Len(t, idx2.Files, 1)
	_, hasB := idx2.Files[bPath]
	require.True(t, hasB)
	require.Equal(t, model.KindFolder, idx2.Kind)
}

func TestNeedsReindexingDetectsContentChangeWithPreservedMtime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\n"), 0o644))

	info, err := os.Stat(path)
	require.NoError(t, err)
	mtime := info.ModTime()
	stored := &model.File{LastModified: float64(mtime.Unix()), Hash: sha256.Sum256([]byte("alpha\n"))}

	require.False(t, needsReindexing(stored, path), "unchanged content and mtime must not trigger reindex")

	// Change the content but restore the original mtime, simulating a
	// writer that preserves timestamps or an equal-second write.
	require.NoError(t, os.WriteFile(path, []byte("alpha changed\n"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	require.True(t, needsReindexing(stored, path), "content change must be detected even when mtime did not advance")
}

func TestUpdateIdempotent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha\n"), 0o644))
	indexPath := filepath.Join(t.TempDir(), "idx.flat")
	var locks lockset.Set

	_, changed, err := Update(context.Background(), indexPath, cfgFor(dir), &locks)
	require.NoError(t, err)
	require.True(t, changed)

	b1, err := os.ReadFile(indexPath)
	require.NoError(t, err)

	_, changed2, err := Update(context.Background(), indexPath, cfgFor(dir), &locks)
	require.NoError(t, err)
	require.False(t, changed2)

	b2, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	require.Equal(t, b1, b2)
}

func TestUpdateBusyReturnsErrBusy(t *testing.T) {
	var locks lockset.Set
	require.True(t, locks.TryAcquire("/tmp/x.flat"))
	_, _, err := Update(context.Background(), "/tmp/x.flat", builder.Config{}, &locks)
	require.ErrorIs(t, err, ErrBusy)
}
