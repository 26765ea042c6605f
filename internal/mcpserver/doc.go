// Package mcpserver exposes the search surface over MCP: ripgrep_search
// and embedding_search tools, each returning the JSON-stringified payload
// of the matching HTTP endpoint. Grounded on internal/mcp's
// NewServer/registerTools/ServeStdio shape and its newMCPError/MCPError
// convention, restructured around two search tools instead of three
// indexing tools.
package mcpserver
