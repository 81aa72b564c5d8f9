package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/meetingcontext-mcp/internal/indexer"
	"github.com/dshills/meetingcontext-mcp/internal/searcher"
	"github.com/dshills/meetingcontext-mcp/internal/storage"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeCorpusNotFound     = -32001 // Specified path has not been indexed
	ErrorCodeIndexingInProgress = -32002 // Another indexing operation is already running
	ErrorCodeEmptyQuery         = -32004 // Query parameter is empty
)

// handleIndexTranscripts handles the index_transcripts tool invocation
func (s *Server) handleIndexTranscripts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	// Validate path exists and holds recordings
	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	// Parse optional parameters
	forceReindex, _ := args["force_reindex"].(bool)
	maxChars := getIntDefault(args, "max_chars", 0)
	overlapChars := getIntDefault(args, "overlap_chars", -1)
	if maxChars < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "max_chars must not be negative", map[string]interface{}{
			"param": "max_chars",
			"value": maxChars,
		})
	}
	// Distinguish an absent overlap_chars (defaulted) from an explicit
	// negative value, which is rejected rather than silently replaced.
	if v, ok := args["overlap_chars"].(float64); ok && v < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "overlap_chars must not be negative", map[string]interface{}{
			"param": "overlap_chars",
			"value": int(v),
		})
	}

	// One indexing run at a time; chunk rows for a corpus are rewritten
	// in place
	if !s.indexLock.TryAcquire() {
		return nil, newMCPError(ErrorCodeIndexingInProgress, "another indexing operation is already running", nil)
	}
	defer s.indexLock.Release()

	config := &indexer.Config{
		MaxChars:     maxChars,
		OverlapChars: overlapChars,
		ForceReindex: forceReindex,
	}

	// Run indexing
	stats, err := s.indexer.IndexCorpus(ctx, path, config)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Stored chunks changed; cached queries are stale
	s.searcher.InvalidateCache()

	// Format response
	response := map[string]interface{}{
		"indexed":          true,
		"files_read":       stats.FilesRead,
		"meetings_indexed": stats.MeetingsIndexed,
		"meetings_skipped": stats.MeetingsSkipped,
		"meetings_failed":  stats.MeetingsFailed,
		"chunks_created":   stats.ChunksCreated,
		"duration_ms":      stats.Duration.Milliseconds(),
	}

	if len(stats.ErrorMessages) > 0 {
		// Include first few errors
		errorCount := len(stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchTranscripts handles the search_transcripts tool invocation
func (s *Server) handleSearchTranscripts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	// Parse filters
	searchFilters := &storage.SearchFilters{}
	if filters, ok := args["filters"].(map[string]interface{}); ok {
		searchFilters.DateYMD = getStringDefault(filters, "date", "")
		searchFilters.MeetingKey = getStringDefault(filters, "meeting_key", "")
		if min, ok := filters["min_relevance"].(float64); ok {
			if min < 0 || min > 1 {
				return nil, newMCPError(ErrorCodeInvalidParams, "min_relevance must be between 0.0 and 1.0", map[string]interface{}{
					"param": "min_relevance",
					"value": min,
				})
			}
			searchFilters.MinRelevance = min
		}
	}

	corpus, mcpErr := s.lookupCorpus(ctx, path)
	if mcpErr != nil {
		return nil, mcpErr
	}

	response, err := s.searcher.Search(ctx, searcher.SearchRequest{
		CorpusID: corpus.ID,
		Query:    query,
		Limit:    limit,
		Filters:  searchFilters,
		UseCache: true,
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(response.Results))
	for _, result := range response.Results {
		results = append(results, map[string]interface{}{
			"rank":            result.Rank,
			"relevance_score": result.RelevanceScore,
			"chunk_id":        result.ChunkKey,
			"meeting_key":     result.Meeting.MeetingKey,
			"meeting_name":    result.Meeting.MeetingName,
			"date":            result.Meeting.DateYMD,
			"source_file":     result.Meeting.SourceFile,
			"char_start":      result.CharStart,
			"char_end":        result.CharEnd,
			"content":         result.Content,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":         query,
		"total_results": response.TotalResults,
		"cache_hit":     response.CacheHit,
		"duration_ms":   response.Duration.Milliseconds(),
		"results":       results,
	})), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	rootPath, err := filepath.Abs(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	corpus, err := s.storage.GetCorpus(ctx, rootPath)
	if err == storage.ErrNotFound {
		response := map[string]interface{}{
			"indexed": false,
			"path":    rootPath,
			"message": "Recordings not indexed. Use index_transcripts tool to index this path.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get corpus status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	status, err := s.storage.GetStatus(ctx, corpus.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed": true,
		"corpus": map[string]interface{}{
			"path":            corpus.RootPath,
			"max_chars":       corpus.MaxChars,
			"overlap_chars":   corpus.OverlapChars,
			"index_version":   corpus.IndexVersion,
			"last_indexed_at": corpus.LastIndexedAt.Format(time.RFC3339),
		},
		"statistics": map[string]interface{}{
			"meetings_count": status.MeetingsCount,
			"chunks_count":   status.ChunksCount,
			"index_size_mb":  fmt.Sprintf("%.2f", status.IndexSizeMB),
		},
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"chunks_available":    status.Health.ChunksAvailable,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// lookupCorpus resolves a recordings path to an indexed corpus
func (s *Server) lookupCorpus(ctx context.Context, path string) (*storage.Corpus, error) {
	rootPath, err := filepath.Abs(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	corpus, err := s.storage.GetCorpus(ctx, rootPath)
	if err == storage.ErrNotFound {
		return nil, newMCPError(ErrorCodeCorpusNotFound, "path not indexed", map[string]interface{}{
			"path":   rootPath,
			"reason": "use index_transcripts first",
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to look up corpus", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return corpus, nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks that a path exists and holds recordings CSV data.
// The path may be a directory of CSV files or a single CSV file.
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if !info.IsDir() {
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		return ErrNotCSV
	}

	// Check the directory is readable and holds at least one CSV file
	entries, err := os.ReadDir(path)
	if err != nil {
		return ErrPathNotReadable
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			return nil
		}
	}

	return ErrNoCSVFiles
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotCSV          = errors.New("file is not a CSV file")
	ErrNoCSVFiles      = errors.New("directory does not contain CSV files")
)
