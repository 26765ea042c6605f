package codec

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/corvine/flatindex/pkg/model"
	"github.com/stretchr/testify/require"
)

func sampleIndex() *model.Index {
	idx := model.NewGitRepoIndex("/repo", "repo")
	idx.LatestCommitHash = "deadbeef"
	idx.IsDirty = true
	f := model.File{
		Path:         "/repo/a.go",
		Filename:     "a.go",
		CreationTime: 1000.5,
		LastModified: 2000.25,
		Fragments: []model.Fragment{
			{StartLine: 1, EndLine: 10, Embedding: []float32{0.1, -0.2, 0.3}, FragmentType: "document", Model: "m1", ChunkAlgorithm: "simple", Task: model.RetrievalDocument, ContentScore: 42},
		},
	}
	idx.Files[f.Path] = &f
	return idx
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.flat")
	idx := sampleIndex()

	require.NoError(t, Write(path, idx))
	got, err := Read(path)
	require.NoError(t, err)

	require.Equal(t, idx.Kind, got.Kind)
	require.Equal(t, idx.Path, got.Path)
	require.Equal(t, idx.Name, got.Name)
	require.Equal(t, idx.LatestCommitHash, got.LatestCommitHash)
	require.Equal(t, idx.IsDirty, got.IsDirty)
	require.Len(t, got.Files, 1)
	gotFile := got.Files["/repo/a.go"]
	require.Equal(t, idx.Files["/repo/a.go"].Fragments[0].Embedding, gotFile.Fragments[0].Embedding)
	require.Equal(t, idx.Files["/repo/a.go"].Fragments[0].ContentScore, gotFile.Fragments[0].ContentScore)
}

func TestRoundTripIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.flat")
	idx := sampleIndex()
	require.NoError(t, Write(path, idx))
	b1, err := os.ReadFile(path)
	require.NoError(t, err)

	got, err := Read(path)
	require.NoError(t, err)
	require.NoError(t, Write(path, got))
	b2, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, b1, b2)
}

func TestVersionMismatchDeletesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.flat")
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], 999)
	require.NoError(t, os.WriteFile(path, header[:], 0o644))

	_, err := Read(path)
	require.Error(t, err)
	var mismatch *model.IndexVersionMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, uint32(999), mismatch.FileVersion)
	require.Equal(t, CurrentVersion, mismatch.ExpectedVersion)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestCorruptIndexTooShort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.flat")
	require.NoError(t, os.WriteFile(path, []byte{1, 2}, 0o644))
	_, err := Read(path)
	require.ErrorIs(t, err, model.ErrCorruptIndex)
}
