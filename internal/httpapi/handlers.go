package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/corvine/flatindex/internal/query"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type lexicalHitDTO struct {
	Path        string `json:"path"`
	LineNumber  int    `json:"lineNumber"`
	LineContent string `json:"lineContent"`
	MatchStart  int    `json:"matchStart"`
	MatchEnd    int    `json:"matchEnd"`
}

func lexicalResponse(hits []query.LexicalHit) []lexicalHitDTO {
	out := make([]lexicalHitDTO, len(hits))
	for i, h := range hits {
		out[i] = lexicalHitDTO{
			Path:        h.File.Path,
			LineNumber:  h.LineNumber,
			LineContent: h.LineContent,
			MatchStart:  h.MatchStart,
			MatchEnd:    h.MatchEnd,
		}
	}
	return out
}

type semanticHitDTO struct {
	Path       string  `json:"path"`
	StartLine  int     `json:"startLine"`
	EndLine    int     `json:"endLine"`
	Similarity float64 `json:"similarity"`
}

func semanticResponse(hits []query.SemanticHit) []semanticHitDTO {
	out := make([]semanticHitDTO, len(hits))
	for i, h := range hits {
		out[i] = semanticHitDTO{
			Path:       h.File.Path,
			StartLine:  h.Fragment.StartLine,
			EndLine:    h.Fragment.EndLine,
			Similarity: h.Similarity,
		}
	}
	return out
}

const openAPIDoc = `{
  "openapi": "3.0.0",
  "info": {"title": "flatidx", "version": "1"},
  "paths": {
    "/search/ripgrep": {
      "post": {
        "summary": "Literal/regex search over an index's files via ripgrep",
        "security": [{"bearerAuth": []}]
      }
    },
    "/search/embedding": {
      "post": {
        "summary": "Semantic search over an index's embedded fragments",
        "security": [{"bearerAuth": []}]
      }
    }
  },
  "components": {
    "securitySchemes": {
      "bearerAuth": {"type": "http", "scheme": "bearer"}
    }
  }
}`

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(openAPIDoc))
}
