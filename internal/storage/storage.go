package storage

import (
	"context"
	"time"
)

// Storage defines the interface for persisting and querying indexed
// transcript data
type Storage interface {
	// Corpus operations
	CreateCorpus(ctx context.Context, corpus *Corpus) error
	GetCorpus(ctx context.Context, rootPath string) (*Corpus, error)
	UpdateCorpus(ctx context.Context, corpus *Corpus) error

	// Meeting operations
	UpsertMeeting(ctx context.Context, meeting *Meeting) error
	GetMeeting(ctx context.Context, corpusID int64, meetingKey string) (*Meeting, error)
	GetMeetingByID(ctx context.Context, meetingID int64) (*Meeting, error)
	ListMeetings(ctx context.Context, corpusID int64) ([]*Meeting, error)
	DeleteMeeting(ctx context.Context, meetingID int64) error

	// Chunk operations
	UpsertChunk(ctx context.Context, chunk *Chunk) error
	GetChunk(ctx context.Context, chunkID int64) (*Chunk, error)
	ListChunksByMeeting(ctx context.Context, meetingID int64) ([]*Chunk, error)
	DeleteChunksByMeeting(ctx context.Context, meetingID int64) error

	// Search operations
	SearchText(ctx context.Context, corpusID int64, terms []string, limit int, filters *SearchFilters) ([]*Chunk, error)

	// Status operations
	GetStatus(ctx context.Context, corpusID int64) (*CorpusStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Corpus represents an indexed collection of recordings CSV files
type Corpus struct {
	ID            int64
	RootPath      string
	TotalMeetings int
	TotalChunks   int
	IndexVersion  string
	MaxChars      int // Chunking budget the corpus was indexed with
	OverlapChars  int // Overlap the corpus was indexed with
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Meeting represents a tracked transcript row
type Meeting struct {
	ID              int64
	CorpusID        int64
	MeetingKey      string
	DateYMD         string
	MeetingName     string
	SourceFile      string
	TranscriptHash  [32]byte // SHA-256 of the raw transcript, for incremental skip
	TranscriptChars int      // Length of the normalized transcript
	ChunkCount      int
	LastIndexedAt   time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Chunk represents one stored transcript chunk
type Chunk struct {
	ID         int64
	MeetingID  int64
	ChunkIndex int
	ChunkKey   string // Stable content-derived chunk ID, 40 hex chars
	CharStart  int
	CharEnd    int
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SearchFilters contains filters for narrowing search results
type SearchFilters struct {
	DateYMD      string  // Exact meeting date (YYYY-MM-DD)
	MeetingKey   string  // Restrict to a single meeting
	MinRelevance float64 // Minimum relevance score, applied by the searcher
}

// CorpusStatus contains statistics about an indexed corpus
type CorpusStatus struct {
	Corpus        *Corpus
	MeetingsCount int
	ChunksCount   int
	IndexSizeMB   float64
	LastIndexedAt time.Time
	Health        HealthStatus
}

// HealthStatus represents the health of the index
type HealthStatus struct {
	DatabaseAccessible bool
	ChunksAvailable    bool
}
