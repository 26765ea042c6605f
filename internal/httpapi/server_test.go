package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvine/flatindex/pkg/model"
)

type fakeEmbedder struct {
	vec []float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, text, modelName string, task model.Task) ([]float32, error) {
	return f.vec, nil
}

func testIndex(t *testing.T) *model.Index {
	t.Helper()
	idx := model.NewFolderIndex("/repo")
	frag, err := model.NewFragment(1, 2, "hello", "source", "simple")
	require.NoError(t, err)
	frag.Model = "text-embedding"
	frag.Task = model.SemanticSimilarity
	frag.Embedding = []float32{1, 0}
	file := model.NewFile("/repo/a.go", []byte("hello"), 0, 0)
	file.Fragments = append(file.Fragments, frag)
	idx.Files[file.Path] = &file
	return idx
}

func newTestServer(t *testing.T) *Server {
	idx := testIndex(t)
	return &Server{
		APIKey:         "secret",
		EmbeddingModel: "text-embedding",
		Embedder:       &fakeEmbedder{vec: []float32{1, 0}},
		Indexes:        func() []*model.Index { return []*model.Index{idx} },
	}
}

func TestRootUnauthenticated(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchEmbeddingRequiresBearer(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/search/embedding", strings.NewReader(`{"query":"hello"}`))
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSearchEmbeddingWithBearer(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/search/embedding", strings.NewReader(`{"query":"hello"}`))
	req.Header.Set("Authorization", "Bearer secret")
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "a.go")
}

func TestSearchEmbeddingTaskAwareMatchesRetrievalQueryFragments(t *testing.T) {
	idx := model.NewFolderIndex("/repo")
	frag, err := model.NewFragment(1, 2, "hello", "source", "simple")
	require.NoError(t, err)
	frag.Model = "text-embedding"
	frag.Task = model.RetrievalQuery
	frag.Embedding = []float32{1, 0}
	file := model.NewFile("/repo/a.go", []byte("hello"), 0, 0)
	file.Fragments = append(file.Fragments, frag)
	idx.Files[file.Path] = &file

	s := &Server{
		APIKey:         "secret",
		EmbeddingModel: "text-embedding",
		TaskAware:      true,
		Embedder:       &fakeEmbedder{vec: []float32{1, 0}},
		Indexes:        func() []*model.Index { return []*model.Index{idx} },
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/search/embedding", strings.NewReader(`{"query":"hello"}`))
	req.Header.Set("Authorization", "Bearer secret")
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "a.go")
}

func TestUnknownPathIs404(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWrongMethodIs405(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/search/ripgrep", nil)
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
