package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_MixedArtifacts(t *testing.T) {
	// BOM, literal escape sequences, real CRLF/CR, tab, blank-line run
	raw := "\uFEFFLine1\\r\\nLine2\r\nLine3\rLine4\tTab\n\n\nLine5"
	want := "Line1\nLine2\nLine3\nLine4 Tab\n\nLine5"

	assert.Equal(t, want, Normalize(raw))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \n\t \r\n "))
}

func TestNormalize_StripsBOM(t *testing.T) {
	assert.Equal(t, "hello", Normalize("\uFEFFhello"))
}

func TestNormalize_LiteralEscapes(t *testing.T) {
	assert.Equal(t, "a\nb", Normalize(`a\r\nb`))
	assert.Equal(t, "a\nb", Normalize(`a\nb`))
	assert.Equal(t, "a\nb", Normalize(`a\rb`))
}

func TestNormalize_CollapsesBlankRuns(t *testing.T) {
	assert.Equal(t, "a\n\nb", Normalize("a\n\n\n\n\nb"))
	// Two newlines are a paragraph break and stay untouched
	assert.Equal(t, "a\n\nb", Normalize("a\n\nb"))
}

func TestNormalize_Trims(t *testing.T) {
	assert.Equal(t, "body", Normalize("\n\n  body \n\n"))
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := "\uFEFFA first line.\\r\\nSecond.\r\nThird\tend\n\n\n\nLast."
	once := Normalize(raw)
	assert.Equal(t, once, Normalize(once))
}
