package chunker

import (
	"regexp"
	"strings"
)

// escapeReplacer decodes literal backslash escapes left behind by prior
// serialization of the transcript (the CSV exports store newlines as the
// two-character sequences \r\n, \n, \r).
var escapeReplacer = strings.NewReplacer(
	`\r\n`, "\n",
	`\n`, "\n",
	`\r`, "\n",
)

// lineEndingReplacer normalizes real carriage returns to line feeds.
var lineEndingReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
)

// blankRunPattern matches runs of three or more newlines, which are
// collapsed to a single paragraph break.
var blankRunPattern = regexp.MustCompile(`\n{3,}`)

// Normalize canonicalizes a raw transcript string: strips a leading BOM,
// decodes literal escape sequences, normalizes line endings, replaces tabs
// with spaces, bounds blank-line runs to one paragraph break, and trims
// surrounding whitespace. Pure and deterministic; empty input yields an
// empty string.
func Normalize(raw string) string {
	text := strings.TrimPrefix(raw, "\uFEFF")
	text = escapeReplacer.Replace(text)
	text = lineEndingReplacer.Replace(text)
	text = strings.ReplaceAll(text, "\t", " ")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
