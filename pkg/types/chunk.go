package types

import (
	"crypto/sha1" //nolint:gosec // Not used for security; stable content-derived IDs only.
	"encoding/hex"
	"errors"
	"fmt"
)

// Span is a half-open [Start, End) byte-offset range into normalized
// transcript text.
type Span struct {
	Start int
	End   int
}

// Len returns the width of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Validate checks the span against the length of the text it indexes.
func (s Span) Validate(textLen int) error {
	if s.Start < 0 || s.End < s.Start || s.End > textLen {
		return fmt.Errorf("invalid span [%d,%d) for text of length %d", s.Start, s.End, textLen)
	}
	return nil
}

// ChunkRecord represents one size-bounded slice of a normalized transcript,
// ready for indexing and search. One meeting record produces zero or more
// chunk records in strictly increasing ChunkIndex order.
type ChunkRecord struct {
	// Meeting identity, copied from the source record
	MeetingKey  string
	DateYMD     string
	MeetingName string

	// Position
	ChunkIndex int    // 0-based, contiguous within a meeting
	CharStart  int    // Offset into the normalized transcript
	CharEnd    int    // Exclusive end offset

	// Content
	ChunkID string // Stable content-derived ID, 40 hex characters
	Text    string // normalized[CharStart:CharEnd]
}

// StableChunkID computes the content-derived identifier for a chunk.
// The digest covers the meeting key, the chunk index, and the chunk text,
// so identical inputs always produce identical IDs across processes.
func StableChunkID(meetingKey string, chunkIndex int, text string) string {
	payload := fmt.Sprintf("%s|%d|%s", meetingKey, chunkIndex, text)
	sum := sha1.Sum([]byte(payload)) //nolint:gosec // Stable ID, not a security boundary.
	return hex.EncodeToString(sum[:])
}

// ValidateContent checks if the chunk content is valid.
func (c *ChunkRecord) ValidateContent() error {
	if c.Text == "" {
		return errors.New("chunk text cannot be empty")
	}

	if c.CharStart < 0 || c.CharEnd < 0 {
		return errors.New("char offsets must be non-negative")
	}

	if c.CharStart > c.CharEnd {
		return errors.New("char start must be before or equal to char end")
	}

	return nil
}

// Validate performs comprehensive validation of the chunk.
func (c *ChunkRecord) Validate() error {
	if err := c.ValidateContent(); err != nil {
		return err
	}

	if c.MeetingKey == "" {
		return errors.New("meeting key is required")
	}

	if c.ChunkIndex < 0 {
		return errors.New("chunk index must be non-negative")
	}

	// Verify the chunk ID matches the content it claims to identify
	if c.ChunkID != StableChunkID(c.MeetingKey, c.ChunkIndex, c.Text) {
		return errors.New("chunk ID does not match content")
	}

	return nil
}
