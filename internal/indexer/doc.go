// Package indexer coordinates the end-to-end indexing pipeline for meeting
// transcripts.
//
// The indexer reads recordings CSV files, chunks each transcript, and
// persists meetings and chunks to SQLite, managing concurrency and error
// handling along the way.
//
// # Basic Usage
//
//	idx := indexer.New(store)
//
//	stats, err := idx.IndexCorpus(ctx, "/path/to/recordings", &indexer.Config{
//	    MaxChars:     1200,
//	    OverlapChars: 200,
//	})
//
//	fmt.Printf("Indexed %d meetings in %v\n", stats.MeetingsIndexed, stats.Duration)
//
// # Indexing Pipeline
//
// The indexer executes a multi-stage pipeline:
//
//  1. Discovery: Find recordings CSV files under the input path
//  2. Read: Parse CSV rows into meeting records, derive keys and dates
//  3. Incremental Decision: Compare transcript hashes, skip unchanged rows
//  4. Chunk: Normalize and segment each transcript (parallel)
//  5. Store: Persist meetings and chunks in batched transactions
//
// # Incremental Indexing
//
// By default, only changed transcripts are re-chunked. Change detection
// uses SHA-256 hashing of the raw transcript. A corpus stores the chunking
// parameters it was built with; if MaxChars or OverlapChars differ on a
// later run, every stored chunk boundary is stale and the corpus is fully
// re-chunked. Force a full re-index with Config.ForceReindex.
//
// # Concurrent Processing
//
// Meetings are processed in batches, one transaction per batch, with a
// semaphore bounding concurrent chunking work. A failed meeting is
// recorded in Statistics.ErrorMessages and does not abort its batch.
package indexer
