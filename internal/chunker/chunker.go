package chunker

import (
	"fmt"
	"iter"
	"unicode/utf8"

	"github.com/dshills/meetingcontext-mcp/pkg/types"
)

const (
	// DefaultMaxChars is the default span budget in bytes of normalized text
	DefaultMaxChars = 1200

	// DefaultOverlapChars is the default overlap pulled from the previous span
	DefaultOverlapChars = 200
)

// Chunker turns meeting transcripts into ordered, overlapping, size-bounded
// chunks with stable content-derived IDs. A Chunker is stateless after
// construction and safe for concurrent use across records.
type Chunker struct {
	maxChars     int
	overlapChars int
	rules        []BoundaryRule
}

// New creates a Chunker with the default sentence boundary rules.
// maxChars must be positive and overlapChars non-negative; both are
// validated here so the chunking functions never see a bad budget.
func New(maxChars, overlapChars int) (*Chunker, error) {
	return NewWithRules(maxChars, overlapChars, DefaultBoundaryRules)
}

// NewWithRules creates a Chunker with a custom boundary rule set.
func NewWithRules(maxChars, overlapChars int, rules []BoundaryRule) (*Chunker, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("max chars must be positive, got %d", maxChars)
	}
	if overlapChars < 0 {
		return nil, fmt.Errorf("overlap chars must be non-negative, got %d", overlapChars)
	}
	return &Chunker{
		maxChars:     maxChars,
		overlapChars: overlapChars,
		rules:        rules,
	}, nil
}

// MaxChars returns the configured span budget.
func (c *Chunker) MaxChars() int { return c.maxChars }

// OverlapChars returns the configured overlap width.
func (c *Chunker) OverlapChars() int { return c.overlapChars }

// Chunk normalizes the record's transcript and materializes its chunks.
// An absent or empty transcript yields no chunks and no error.
func (c *Chunker) Chunk(record types.MeetingRecord) []types.ChunkRecord {
	return c.ChunkNormalized(record, Normalize(record.Transcript))
}

// ChunkNormalized materializes chunks from already-normalized text. The
// text must be the output of Normalize for the record's transcript.
func (c *Chunker) ChunkNormalized(record types.MeetingRecord, normalized string) []types.ChunkRecord {
	if normalized == "" {
		return nil
	}

	spans := c.Spans(normalized)
	chunks := make([]types.ChunkRecord, 0, len(spans))
	for i, span := range spans {
		slice := normalized[span.Start:span.End]
		chunks = append(chunks, types.ChunkRecord{
			MeetingKey:  record.MeetingKey,
			DateYMD:     record.DateYMD,
			MeetingName: record.MeetingName,
			ChunkIndex:  i,
			ChunkID:     types.StableChunkID(record.MeetingKey, i, slice),
			CharStart:   span.Start,
			CharEnd:     span.End,
			Text:        slice,
		})
	}
	return chunks
}

// ChunkStream lazily chunks a sequence of records, yielding chunk records
// in input order. The returned sequence is finite and restartable:
// iterating it twice produces identical output.
func (c *Chunker) ChunkStream(records iter.Seq[types.MeetingRecord]) iter.Seq[types.ChunkRecord] {
	return func(yield func(types.ChunkRecord) bool) {
		for record := range records {
			for _, chunk := range c.Chunk(record) {
				if !yield(chunk) {
					return
				}
			}
		}
	}
}

// Spans computes the final span list for normalized text: base spans with
// overlap applied.
func (c *Chunker) Spans(text string) []types.Span {
	return c.applyOverlap(text, c.BaseSpans(text))
}

// BaseSpans greedily packs consecutive paragraph blocks into the fewest
// spans not exceeding the budget. A single block that alone exceeds the
// budget is split at sentence boundaries and never merged with neighbors.
// Each blank-line separator is assigned to the block that follows it, so
// the returned spans cover the text exactly, in order, with no gaps, and
// concatenating the slices reconstructs the text.
func (c *Chunker) BaseSpans(text string) []types.Span {
	var spans []types.Span

	// Open accumulated span, or nil between merges. Keeping this as an
	// explicit state value keeps the merge/flush transitions auditable.
	var open *types.Span

	prevEnd := 0
	for _, block := range BlockSpans(text) {
		block.Start = prevEnd
		prevEnd = block.End

		if open != nil {
			if block.End-open.Start <= c.maxChars {
				open.End = block.End
				continue
			}
			spans = append(spans, *open)
			open = nil
		}

		if block.Len() <= c.maxChars {
			open = &types.Span{Start: block.Start, End: block.End}
		} else {
			spans = append(spans, c.splitBlock(block.Start, text[block.Start:block.End])...)
		}
	}

	if open != nil {
		spans = append(spans, *open)
	}
	return spans
}

// splitBlock splits one oversized paragraph block into spans of at most
// maxChars, preferring sentence boundaries. When the first candidate
// sentence in a window alone exceeds the budget, the window is hard-cut at
// the budget (forced mid-sentence split). Blocks with no recognizable
// sentence boundary fall back to fixed-width slicing. Emitted spans use
// absolute offsets.
func (c *Chunker) splitBlock(blockStart int, block string) []types.Span {
	if len(block) <= c.maxChars {
		return []types.Span{{Start: blockStart, End: blockStart + len(block)}}
	}

	ends := sentenceEnds(block, c.rules)
	if len(ends) == 0 {
		return fixedWidthSpans(blockStart, block, 0, c.maxChars)
	}

	var spans []types.Span
	current := 0 // window start, local offset
	last := 0    // end of last sentence boundary accepted into the window

	for _, end := range ends {
		if end-current <= c.maxChars {
			last = end
			continue
		}

		if last == current {
			// No boundary accepted yet: the first candidate sentence
			// alone exceeds the budget. Hard-cut at the budget.
			hardEnd := alignCut(block, current, current+c.maxChars)
			spans = append(spans, types.Span{Start: blockStart + current, End: blockStart + hardEnd})
			current = hardEnd
			last = current
		} else {
			spans = append(spans, types.Span{Start: blockStart + current, End: blockStart + last})
			current = last
			last = current
		}

		if end-current <= c.maxChars {
			last = end
		}
	}

	if current < len(block) {
		if last > current {
			spans = append(spans, types.Span{Start: blockStart + current, End: blockStart + last})
			current = last
		}
		if current < len(block) {
			// Tail past the last sentence boundary
			spans = append(spans, fixedWidthSpans(blockStart, block, current, c.maxChars)...)
		}
	}
	return spans
}

// applyOverlap pulls each span's start backward into the tail of the
// immediately preceding span by the configured overlap. The first span is
// never adjusted and end offsets never change, so overlap only duplicates
// text, it cannot create gaps. Overlap is one-step-back only: a start is
// computed from the previous span's end, never compounded across earlier
// spans.
func (c *Chunker) applyOverlap(text string, spans []types.Span) []types.Span {
	if c.overlapChars <= 0 || len(spans) < 2 {
		return spans
	}

	overlapped := make([]types.Span, len(spans))
	overlapped[0] = spans[0]
	for i := 1; i < len(spans); i++ {
		start := spans[i-1].End - c.overlapChars
		if start < 0 {
			start = 0
		}
		for start > 0 && !utf8.RuneStart(text[start]) {
			start--
		}
		if spans[i].Start < start {
			// Overlap only pulls a boundary earlier, never later
			start = spans[i].Start
		}
		overlapped[i] = types.Span{Start: start, End: spans[i].End}
	}
	return overlapped
}

// fixedWidthSpans slices block[from:] into windows of maxChars (the last
// window may be shorter), with absolute offsets.
func fixedWidthSpans(blockStart int, block string, from, maxChars int) []types.Span {
	var spans []types.Span
	for i := from; i < len(block); {
		end := alignCut(block, i, i+maxChars)
		spans = append(spans, types.Span{Start: blockStart + i, End: blockStart + end})
		i = end
	}
	return spans
}

// alignCut moves a forced cut backward onto a rune boundary so a slice
// never splits a UTF-8 sequence. If backing up would empty the window the
// cut advances past the full rune instead, which only matters for budgets
// smaller than a single multi-byte rune.
func alignCut(text string, start, cut int) int {
	if cut >= len(text) {
		return len(text)
	}
	aligned := cut
	for aligned > start && !utf8.RuneStart(text[aligned]) {
		aligned--
	}
	if aligned == start {
		_, size := utf8.DecodeRuneInString(text[start:])
		return start + size
	}
	return aligned
}
