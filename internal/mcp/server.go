package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/meetingcontext-mcp/internal/indexer"
	"github.com/dshills/meetingcontext-mcp/internal/searcher"
	"github.com/dshills/meetingcontext-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "meetingcontext-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the database
	DefaultDBPath = "~/.meetingcontext/indices"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	storage   storage.Storage
	indexer   *indexer.Indexer
	searcher  *searcher.Searcher
	indexLock indexer.IndexLock
}

// NewServer creates a new MCP server instance
func NewServer(dbPath string) (*Server, error) {
	// Expand home directory if needed
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".meetingcontext", "indices")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// A single database file holds every corpus
	dbFile := filepath.Join(dbPath, "meetingcontext.db")

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Create indexer
	idx := indexer.New(store)

	// Create searcher
	srch := searcher.NewSearcher(store)

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		storage:  store,
		indexer:  idx,
		searcher: srch,
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	// Register index_transcripts tool
	s.mcp.AddTool(indexTranscriptsTool(), s.handleIndexTranscripts)

	// Register search_transcripts tool
	s.mcp.AddTool(searchTranscriptsTool(), s.handleSearchTranscripts)

	// Register get_status tool
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)

	return nil
}
