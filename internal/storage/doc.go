// Package storage provides SQLite-based persistence for indexed transcript data.
//
// The storage layer manages:
//   - Corpus metadata (root path, chunking parameters)
//   - Meeting rows and transcript content hashes
//   - Transcript chunks with character offsets
//
// # Database Schema
//
// Tables:
//   - corpora: Indexed CSV collections and the chunking parameters used
//   - meetings: One row per transcript, keyed by (corpus_id, meeting_key),
//     with a SHA-256 transcript hash for incremental re-indexing
//   - chunks: Chunked transcript text, keyed by (meeting_id, chunk_index)
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.meetingcontext/indices/corpus.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	err = db.UpsertMeeting(ctx, &storage.Meeting{
//	    CorpusID:       corpusID,
//	    MeetingKey:     "weekly-sync-2024-03-15",
//	    DateYMD:        "2024-03-15",
//	    TranscriptHash: sha256.Sum256([]byte(transcript)),
//	})
//
// # Transactions
//
// Batch writes go through a transaction so a failed meeting never leaves
// partial chunk rows behind:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	tx.UpsertMeeting(ctx, meeting)
//	tx.DeleteChunksByMeeting(ctx, meeting.ID)
//	for _, chunk := range chunks {
//	    tx.UpsertChunk(ctx, chunk)
//	}
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Incremental Updates
//
// Compare stored transcript hashes to skip unchanged meetings:
//
//	stored, err := db.GetMeeting(ctx, corpusID, meetingKey)
//	if err == nil && stored.TranscriptHash == currentHash {
//	    return nil // unchanged
//	}
//
// # Build Tags
//
// The package compiles against one of two SQLite drivers:
//
//   - Default: modernc.org/sqlite (pure Go, no C compiler needed)
//   - cgo_sqlite tag: github.com/mattn/go-sqlite3 (CGO, faster on large
//     corpora)
//
// Both builds apply the same semver-ordered migrations on open.
package storage
