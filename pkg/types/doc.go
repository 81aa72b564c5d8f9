// Package types provides shared type definitions for the MeetingContext MCP server.
//
// This package defines domain types used across multiple components of
// MeetingContext, including meeting records, chunk records, spans, and search
// results.
//
// # Core Types
//
// MeetingRecord represents one transcript row pulled from a recordings CSV:
//
//	record := types.MeetingRecord{
//	    MeetingKey:  "a1b2c3d4e5f6",
//	    DateYMD:     "2026-02-03",
//	    MeetingName: "Project weekly sync",
//	    Transcript:  rawTranscript,
//	}
//
// ChunkRecord represents one size-bounded slice of a normalized transcript,
// ready for indexing and search:
//
//	chunk := types.ChunkRecord{
//	    MeetingKey: record.MeetingKey,
//	    ChunkIndex: 0,
//	    ChunkID:    types.StableChunkID(record.MeetingKey, 0, slice),
//	    CharStart:  span.Start,
//	    CharEnd:    span.End,
//	    Text:       slice,
//	}
//
// # Stable Chunk IDs
//
// Chunk identifiers are content-derived: two runs over the same transcript
// with the same parameters always produce the same IDs, which makes
// re-indexing idempotent:
//
//	id := types.StableChunkID(meetingKey, chunkIndex, chunkText)
//	// 40 hex characters, stable across processes
//
// # Validation
//
// Domain types implement validation methods to ensure data integrity:
//
//	if err := record.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := chunk.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Search Results
//
// SearchResult combines chunk content with meeting metadata and relevance
// scoring:
//
//	result := &types.SearchResult{
//	    ChunkID:        123,
//	    Rank:           1,
//	    RelevanceScore: 0.92,
//	    Meeting:        meetingInfo,
//	    Content:        chunkText,
//	}
//
// Relevance scores are normalized to [0, 1] range, with higher values
// indicating better matches.
package types
