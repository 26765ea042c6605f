package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvine/flatindex/pkg/model"
)

type fakeEmbeddingResponse struct {
	Object string               `json:"object"`
	Data   []fakeEmbeddingDatum `json:"data"`
}

type fakeEmbeddingDatum struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
	Object    string    `json:"object"`
}

func fakeServer(t *testing.T, dim int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := fakeEmbeddingResponse{Object: "list"}
		for i := range req.Input {
			vec := make([]float32, dim)
			vec[0] = float32(i + 1)
			resp.Data = append(resp.Data, fakeEmbeddingDatum{Embedding: vec, Index: i, Object: "embedding"})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestEmbedBatchPreservesOrderAndCaches(t *testing.T) {
	srv := fakeServer(t, 3)
	defer srv.Close()

	c := New(srv.URL+"/v1", "test-key", 2)
	vecs, err := c.EmbedBatch(context.Background(), []string{"a", "b"}, "test-model", model.RetrievalDocument)
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	require.Equal(t, float32(1), vecs[0][0])
	require.Equal(t, float32(2), vecs[1][0])

	// a second call for the same texts is served from cache.
	vecs2, err := c.EmbedBatch(context.Background(), []string{"a", "b"}, "test-model", model.RetrievalDocument)
	require.NoError(t, err)
	require.Equal(t, vecs, vecs2)

	// the fake server numbers vectors by request position, so a network
	// round trip for the reversed batch would return 1 then 2; cache hits
	// keep each text's original vector.
	vecs3, err := c.EmbedBatch(context.Background(), []string{"b", "a"}, "test-model", model.RetrievalDocument)
	require.NoError(t, err)
	require.Equal(t, float32(2), vecs3[0][0])
	require.Equal(t, float32(1), vecs3[1][0])
}

func TestSharedSingletonKeying(t *testing.T) {
	c1, err := Shared("https://x", "key1", 4)
	require.NoError(t, err)
	c2, err := Shared("https://x", "key1", 4)
	require.NoError(t, err)
	require.Same(t, c1, c2)

	c3, err := Shared("https://x", "key2", 4)
	require.NoError(t, err)
	require.NotSame(t, c1, c3)
}
