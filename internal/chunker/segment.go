package chunker

import (
	"regexp"

	"github.com/dshills/meetingcontext-mcp/pkg/types"
)

// blockSeparatorPattern matches a blank-line separator between paragraph
// blocks: a newline, optional whitespace (tolerating trailing spaces on
// the blank line, including Unicode spaces such as U+3000), then one or
// more newlines.
var blockSeparatorPattern = regexp.MustCompile(`\n[\s\p{Zs}]*\n+`)

// BlockSpans partitions normalized text into contiguous non-blank
// paragraph blocks, returning their spans in text order. Empty text
// yields no spans; text without a separator yields a single span
// covering the whole text.
func BlockSpans(text string) []types.Span {
	if text == "" {
		return nil
	}

	var spans []types.Span
	start := 0
	for _, sep := range blockSeparatorPattern.FindAllStringIndex(text, -1) {
		if sep[0] > start {
			spans = append(spans, types.Span{Start: start, End: sep[0]})
		}
		start = sep[1]
	}
	if start < len(text) {
		spans = append(spans, types.Span{Start: start, End: len(text)})
	}
	return spans
}
