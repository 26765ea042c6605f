package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/corvine/flatindex/internal/audit"
	"github.com/corvine/flatindex/pkg/model"
)

const (
	// Name is the MCP server name advertised to clients.
	Name = "flatidx"
	// Version is the current server version string.
	Version = "1.0.0"
)

// Embedder is the subset of internal/embedder.Client the MCP server
// needs to turn a query string into a vector.
type Embedder interface {
	Embed(ctx context.Context, text, modelName string, task model.Task) ([]float32, error)
}

// IndexSource supplies the set of loaded indexes a tool invocation
// should search across.
type IndexSource func() []*model.Index

// Server wraps the MCP server with the dependencies its two tools need.
type Server struct {
	mcp            *server.MCPServer
	embeddingModel string
	// taskAware must match the builder.Config.TaskAware used to build
	// the indexes this server searches, so embedding_search's query
	// task always matches the task the build actually indexed.
	taskAware bool
	embedder  Embedder
	indexes   IndexSource
	auditLog  *audit.Log
}

// New creates a new MCP server instance and registers its tools.
func New(embeddingModel string, taskAware bool, emb Embedder, indexes IndexSource, auditLog *audit.Log) *Server {
	s := &Server{
		mcp:            server.NewMCPServer(Name, Version),
		embeddingModel: embeddingModel,
		taskAware:      taskAware,
		embedder:       emb,
		indexes:        indexes,
		auditLog:       auditLog,
	}
	s.mcp.AddTool(ripgrepSearchTool(), s.handleRipgrepSearch)
	s.mcp.AddTool(embeddingSearchTool(), s.handleEmbeddingSearch)
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}
