package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/corvine/flatindex/internal/query"
	modelpkg "github.com/corvine/flatindex/pkg/model"
)

// MCP error codes, matching the JSON-RPC reserved range plus an
// application-specific band.
const (
	ErrorCodeInvalidParams = -32602
	ErrorCodeInternalError = -32603
	ErrorCodeEmptyQuery    = -32004
)

// MCPError represents an MCP protocol error.
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{Code: code, Message: message, Data: data}
}

func (s *Server) handleRipgrepSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	pattern, ok := args["pattern"].(string)
	if !ok || pattern == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "pattern parameter is required and cannot be empty", map[string]interface{}{
			"param": "pattern",
		})
	}

	caseSensitive := getBoolDefault(args, "caseSensitive", true)
	maxResults := getIntDefault(args, "maxResults", 10)
	if maxResults < 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "maxResults must be at least 1", map[string]interface{}{
			"param": "maxResults",
			"value": maxResults,
		})
	}

	start := time.Now()
	indexes := s.indexes()
	hits := query.LexicalSearchMulti(ctx, indexes, pattern, caseSensitive, maxResults)
	if s.auditLog != nil {
		s.auditLog.Record("ripgrep", pattern, len(indexes), len(hits), time.Since(start))
	}

	response := make([]map[string]interface{}, len(hits))
	for i, h := range hits {
		response[i] = map[string]interface{}{
			"path":        h.File.Path,
			"lineNumber":  h.LineNumber,
			"lineContent": h.LineContent,
			"matchStart":  h.MatchStart,
			"matchEnd":    h.MatchEnd,
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

func (s *Server) handleEmbeddingSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	q, ok := args["query"].(string)
	if !ok || q == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param": "query",
		})
	}

	maxResults := getIntDefault(args, "maxResults", 10)
	if maxResults < 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "maxResults must be at least 1", map[string]interface{}{
			"param": "maxResults",
			"value": maxResults,
		})
	}

	modelName := getStringDefault(args, "model", s.embeddingModel)
	extensions := getStringSlice(args, "extensions")

	task := modelpkg.QueryTask(s.taskAware)
	start := time.Now()
	vec, err := s.embedder.Embed(ctx, q, modelName, task)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "embedding request failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	indexes := s.indexes()
	hits, err := query.SemanticSearchMulti(indexes, vec, modelName, task, extensions, maxResults)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "semantic search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if s.auditLog != nil {
		s.auditLog.Record("embedding", q, len(indexes), len(hits), time.Since(start))
	}

	response := make([]map[string]interface{}, len(hits))
	for i, h := range hits {
		response[i] = map[string]interface{}{
			"path":       h.File.Path,
			"startLine":  h.Fragment.StartLine,
			"endLine":    h.Fragment.EndLine,
			"similarity": h.Similarity,
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

func formatJSON(data interface{}) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(b)
}

func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return defaultValue
}

func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	if v, ok := args[key].(int); ok {
		return v
	}
	return defaultValue
}

func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return defaultValue
}

func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
