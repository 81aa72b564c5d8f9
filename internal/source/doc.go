// Package source reads meeting recordings CSV exports into meeting records.
//
// The source is the upstream collaborator of the chunking engine: it
// discovers candidate CSV files, filters them by header (a file must carry
// a content or content_clean column), and turns each data row into an
// immutable types.MeetingRecord.
//
// # Discovery
//
//	paths, err := source.Discover("/exports")   // dir: sorted *.csv
//	paths, err := source.Discover("one.csv")    // file: just that file
//	paths, err := source.Discover("")           // cwd and ./data
//
// # Row Mapping
//
// Per row: the transcript comes from content_clean when non-empty, else
// content; rows without a transcript are skipped entirely. The meeting
// date is derived from a prioritized list of date columns and finally from
// a date embedded in the meeting name, normalized to YYYY-MM-DD (numeric
// and Korean 년/월/일 forms are recognized). The meeting key is the
// explicit meeting_key column when present, otherwise a 12-character
// stable digest of name, date, and row position.
//
// Rows that cannot produce a transcript are not errors: recording exports
// routinely mix transcript rows with metadata-only rows.
package source
