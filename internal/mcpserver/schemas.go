package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func ripgrepSearchTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ripgrep_search",
		Description: "Literal/regex search across an indexed folder or git repo's files via ripgrep",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pattern": map[string]interface{}{
					"type":        "string",
					"description": "Pattern passed to ripgrep",
				},
				"caseSensitive": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, match case exactly",
					"default":     true,
				},
				"maxResults": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of matches to return",
					"default":     10,
					"minimum":     1,
				},
			},
			Required: []string{"pattern"},
		},
	}
}

func embeddingSearchTool() mcp.Tool {
	return mcp.Tool{
		Name:        "embedding_search",
		Description: "Semantic search over embedded fragments across indexed folders and git repos",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language query to embed and rank fragments against",
				},
				"maxResults": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of ranked fragments to return",
					"default":     10,
					"minimum":     1,
				},
				"model": map[string]interface{}{
					"type":        "string",
					"description": "Embedding model to use; defaults to the configured embeddingModel",
				},
				"extensions": map[string]interface{}{
					"type":        "array",
					"description": "Restrict to these file extensions (including leading dot); empty means no restriction",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"query"},
		},
	}
}
