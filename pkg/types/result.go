package types

// SearchResult represents a single search result with relevance information
type SearchResult struct {
	// Identification
	ChunkID  int64
	ChunkKey string // Stable content-derived chunk ID, 40 hex chars
	Rank     int    // Position in result set (1-based)

	// Scoring
	RelevanceScore float64 // Keyword match score normalized to [0, 1]

	// Metadata
	Meeting   *MeetingInfo
	Content   string // Chunk text
	CharStart int
	CharEnd   int
}

// MeetingInfo contains meeting metadata for a search result
type MeetingInfo struct {
	MeetingKey  string
	DateYMD     string
	MeetingName string
	SourceFile  string
}

// Validate checks if the search result is valid
func (sr *SearchResult) Validate() error {
	if sr.ChunkID == 0 {
		return ErrInvalidChunkID
	}

	if sr.Rank < 1 {
		return ErrInvalidRank
	}

	if sr.RelevanceScore < 0 || sr.RelevanceScore > 1 {
		return ErrInvalidRelevanceScore
	}

	if sr.Meeting == nil {
		return ErrMissingMeetingInfo
	}

	if sr.Content == "" {
		return ErrEmptyContent
	}

	return nil
}
