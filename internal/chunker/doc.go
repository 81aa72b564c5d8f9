// Package chunker divides meeting transcripts into overlapping, size-bounded
// chunks for indexing and search.
//
// The chunker is a pure function from input text and parameters to an ordered
// list of chunk records: no I/O, no shared state, and bit-identical output
// for identical inputs across runs and process restarts.
//
// # Basic Usage
//
//	c, err := chunker.New(1200, 200)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	chunks := c.Chunk(record)
//	for _, chunk := range chunks {
//	    fmt.Printf("chunk %d [%d,%d) id=%s\n",
//	        chunk.ChunkIndex, chunk.CharStart, chunk.CharEnd, chunk.ChunkID)
//	}
//
// # Pipeline
//
// Data flows strictly forward through the stages:
//
//	raw transcript
//	  -> Normalize          (line endings, tabs, blank-line runs, trim)
//	  -> BlockSpans         (paragraph blocks split on blank lines)
//	  -> BaseSpans          (greedy packing up to the budget; oversized
//	                         blocks split at sentence boundaries)
//	  -> overlap            (each span's start pulled back into the
//	                         previous span's tail)
//	  -> ChunkRecord        (slice + stable SHA-1 chunk ID)
//
// # Sentence Boundaries
//
// Oversized paragraph blocks are split at sentence-terminal positions
// recognized by a pluggable rule list. The default rules cover Latin
// terminal punctuation (. ! ?) and Korean terminal syllables (다. 요. 함.),
// each only when followed by whitespace or end of text. Blocks with no
// recognizable boundary fall back to fixed-width slicing. When the very
// first sentence of a window alone exceeds the budget, the window is
// hard-cut at the budget rather than emitting an oversized span.
//
// # Offsets
//
// Spans are half-open [start, end) byte offsets into the normalized text.
// Forced cuts are aligned to rune boundaries so a chunk never splits a
// UTF-8 sequence; spans concatenated in order (with zero overlap)
// reconstruct the normalized text exactly.
//
// # Concurrency
//
// A Chunker is immutable after construction. Chunking one record never
// touches another, so callers may chunk many records concurrently with any
// worker-pool strategy.
package chunker
