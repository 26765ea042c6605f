package mcpserver

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/corvine/flatindex/pkg/model"
)

type fakeEmbedder struct {
	vec []float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, text, modelName string, task model.Task) ([]float32, error) {
	return f.vec, nil
}

func buildIndex(t *testing.T) *model.Index {
	t.Helper()
	idx := model.NewFolderIndex("/repo")
	frag, err := model.NewFragment(1, 3, "hello world", "source", "simple")
	require.NoError(t, err)
	frag.Model = "text-embedding"
	frag.Task = model.SemanticSimilarity
	frag.Embedding = []float32{1, 0, 0}
	file := model.NewFile("/repo/a.go", []byte("hello world"), 0, 0)
	file.Fragments = append(file.Fragments, frag)
	idx.Files[file.Path] = &file
	return idx
}

func TestEmbeddingSearchToolReturnsRankedHits(t *testing.T) {
	idx := buildIndex(t)
	s := New("text-embedding", false, &fakeEmbedder{vec: []float32{1, 0, 0}}, func() []*model.Index { return []*model.Index{idx} }, nil)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"query": "hello"}

	result, err := s.handleEmbeddingSearch(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestEmbeddingSearchToolRejectsEmptyQuery(t *testing.T) {
	idx := buildIndex(t)
	s := New("text-embedding", false, &fakeEmbedder{}, func() []*model.Index { return []*model.Index{idx} }, nil)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"query": ""}

	_, err := s.handleEmbeddingSearch(context.Background(), req)
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	require.Equal(t, ErrorCodeEmptyQuery, mcpErr.Code)
}

func TestRipgrepSearchToolRejectsEmptyPattern(t *testing.T) {
	idx := buildIndex(t)
	s := New("text-embedding", false, &fakeEmbedder{}, func() []*model.Index { return []*model.Index{idx} }, nil)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"pattern": ""}

	_, err := s.handleRipgrepSearch(context.Background(), req)
	require.Error(t, err)
}
