// Package mcp implements the Model Context Protocol (MCP) server for
// MeetingContext.
//
// The MCP server exposes three tools to AI assistants:
//   - index_transcripts: Index meeting transcript CSV files
//   - search_transcripts: Search indexed transcripts with keyword queries
//   - get_status: Check indexing status and statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output.
// Logging goes to stderr; stdout carries only protocol messages.
//
// # Basic Usage
//
// The MCP server is typically started via the serve command:
//
//	meetingcontext serve
//
// # Tool: index_transcripts
//
// Index a recordings directory or single CSV file:
//
//	Request:
//	{
//	  "name": "index_transcripts",
//	  "arguments": {
//	    "path": "/path/to/recordings",
//	    "force_reindex": false,
//	    "max_chars": 1200,
//	    "overlap_chars": 200
//	  }
//	}
//
//	Response:
//	{
//	  "indexed": true,
//	  "files_read": 3,
//	  "meetings_indexed": 42,
//	  "meetings_skipped": 7,
//	  "chunks_created": 318,
//	  "duration_ms": 210
//	}
//
// # Tool: search_transcripts
//
// Search indexed transcripts:
//
//	Request:
//	{
//	  "name": "search_transcripts",
//	  "arguments": {
//	    "path": "/path/to/recordings",
//	    "query": "quarterly budget",
//	    "limit": 10,
//	    "filters": {
//	      "date": "2024-03-15",
//	      "min_relevance": 0.5
//	    }
//	  }
//	}
//
//	Response:
//	{
//	  "query": "quarterly budget",
//	  "total_results": 2,
//	  "results": [
//	    {
//	      "rank": 1,
//	      "relevance_score": 0.87,
//	      "chunk_id": "a3f9...",
//	      "meeting_key": "weekly-sync",
//	      "meeting_name": "Weekly Sync",
//	      "date": "2024-03-15",
//	      "char_start": 0,
//	      "char_end": 412,
//	      "content": "..."
//	    }
//	  ]
//	}
//
// # Tool: get_status
//
// Check indexing status:
//
//	Request:
//	{
//	  "name": "get_status",
//	  "arguments": {"path": "/path/to/recordings"}
//	}
//
//	Response:
//	{
//	  "indexed": true,
//	  "corpus": {"path": "...", "max_chars": 1200, "overlap_chars": 200},
//	  "statistics": {"meetings_count": 42, "chunks_count": 318},
//	  "health": {"database_accessible": true, "chunks_available": true}
//	}
//
// # Error Codes
//
// Tool handlers return JSON-RPC error codes:
//   - -32602: Invalid parameters (missing path, bad limit)
//   - -32603: Internal error (storage or indexing failure)
//   - -32001: Path not indexed
//   - -32002: Another indexing operation in progress
//   - -32004: Empty query
package mcp
