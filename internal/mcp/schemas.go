package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexTranscriptsTool returns the tool definition for index_transcripts
func indexTranscriptsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_transcripts",
		Description: "Index meeting transcript CSV files to make them searchable",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a recordings directory or a single CSV file",
				},
				"force_reindex": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, re-chunk all meetings ignoring transcript hashes (full rebuild)",
					"default":     false,
				},
				"max_chars": map[string]interface{}{
					"type":        "integer",
					"description": "Chunk budget in characters (default 1200)",
					"minimum":     1,
				},
				"overlap_chars": map[string]interface{}{
					"type":        "integer",
					"description": "Characters of overlap between adjacent chunks (default 200)",
					"minimum":     0,
				},
			},
			Required: []string{"path"},
		},
	}
}

// searchTranscriptsTool returns the tool definition for search_transcripts
func searchTranscriptsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_transcripts",
		Description: "Search indexed meeting transcripts with keyword queries",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the indexed recordings directory or CSV file",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (keywords or phrases)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"filters": map[string]interface{}{
					"type":        "object",
					"description": "Optional filters to narrow search",
					"properties": map[string]interface{}{
						"date": map[string]interface{}{
							"type":        "string",
							"description": "Restrict to meetings on a date (YYYY-MM-DD)",
						},
						"meeting_key": map[string]interface{}{
							"type":        "string",
							"description": "Restrict to a single meeting",
						},
						"min_relevance": map[string]interface{}{
							"type":        "number",
							"description": "Minimum relevance score threshold (0.0-1.0)",
							"minimum":     0.0,
							"maximum":     1.0,
						},
					},
				},
			},
			Required: []string{"path", "query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query indexing status and statistics for a recordings corpus",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the recordings directory or CSV file",
				},
			},
			Required: []string{"path"},
		},
	}
}
