package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/corvine/flatindex/internal/audit"
	"github.com/corvine/flatindex/internal/query"
	"github.com/corvine/flatindex/pkg/model"
)

// Embedder is the subset of internal/embedder.Client the HTTP server
// needs to turn a query string into a vector.
type Embedder interface {
	Embed(ctx context.Context, text, modelName string, task model.Task) ([]float32, error)
}

// IndexSource supplies the set of loaded indexes a request should search
// across. Implementations typically reload from ~/.<appdir>/{folders,
// repos}/*.flat on each call, or cache and refresh on the watch loop's
// schedule.
type IndexSource func() []*model.Index

// Server implements the HTTP search surface.
type Server struct {
	APIKey         string
	EmbeddingModel string
	// TaskAware must match the builder.Config.TaskAware used to build
	// the indexes this server searches; it picks the query-side task
	// via model.QueryTask so the embedding search never asks for a task
	// the build never indexed.
	TaskAware bool
	Embedder  Embedder
	Indexes   IndexSource
	Audit     *audit.Log
}

type route struct {
	method  string
	handler http.HandlerFunc
}

// Handler returns the server's http.Handler: a hand-rolled exact-path
// route table (no net/http.ServeMux subtree matching, which would treat
// "/" as a catch-all for unknown paths) wrapped in permissive CORS
// headers.
func (s *Server) Handler() http.Handler {
	routes := map[string]route{
		"/":                 {method: "GET", handler: s.handleRoot},
		"/openapi.json":     {method: "GET", handler: s.handleOpenAPI},
		"/search/ripgrep":   {method: "POST", handler: s.requireAuth(s.handleSearchRipgrep)},
		"/search/embedding": {method: "POST", handler: s.requireAuth(s.handleSearchEmbedding)},
	}
	return cors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rt, ok := routes[r.URL.Path]
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if r.Method != rt.method {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		rt.handler(w, r)
	}))
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		want := "Bearer " + s.APIKey
		if s.APIKey == "" || r.Header.Get("Authorization") != want {
			writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		handler(w, r)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"service": "flatidx", "status": "ok"})
}

func (s *Server) handleSearchRipgrep(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req struct {
		Pattern       string `json:"pattern"`
		CaseSensitive bool   `json:"caseSensitive"`
		MaxResults    int    `json:"maxResults"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, "malformed request body")
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 10
	}
	indexes := s.Indexes()
	hits := query.LexicalSearchMulti(r.Context(), indexes, req.Pattern, req.CaseSensitive, req.MaxResults)
	if s.Audit != nil {
		s.Audit.Record("ripgrep", req.Pattern, len(indexes), len(hits), time.Since(start))
	}
	writeJSON(w, http.StatusOK, lexicalResponse(hits))
}

func (s *Server) handleSearchEmbedding(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req struct {
		Query      string   `json:"query"`
		MaxResults int      `json:"maxResults"`
		Model      string   `json:"model"`
		Extensions []string `json:"extensions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, "malformed request body")
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 10
	}
	modelName := req.Model
	if modelName == "" {
		modelName = s.EmbeddingModel
	}

	task := model.QueryTask(s.TaskAware)
	vec, err := s.Embedder.Embed(r.Context(), req.Query, modelName, task)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	indexes := s.Indexes()
	hits, err := query.SemanticSearchMulti(indexes, vec, modelName, task, req.Extensions, req.MaxResults)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if s.Audit != nil {
		s.Audit.Record("embedding", req.Query, len(indexes), len(hits), time.Since(start))
	}
	writeJSON(w, http.StatusOK, semanticResponse(hits))
}
