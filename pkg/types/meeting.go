package types

import "errors"

// MeetingRecord represents one transcript row from a recordings CSV.
// Records are immutable once produced by the source; the chunking core
// never mutates them.
type MeetingRecord struct {
	// Identification
	MeetingKey  string // Opaque stable key, unique per meeting
	DateYMD     string // "YYYY-MM-DD" or empty when no date could be derived
	MeetingName string

	// Content
	Transcript string // Raw transcript text as found in the CSV row

	// Provenance
	RowIndex   int    // 0-based row position within the source file
	SourceFile string // Path of the CSV the row came from, may be empty
}

// Validate checks if the meeting record is valid.
func (m *MeetingRecord) Validate() error {
	if m.MeetingKey == "" {
		return errors.New("meeting key cannot be empty")
	}

	if m.RowIndex < 0 {
		return errors.New("row index must be non-negative")
	}

	return nil
}
