package indexer

import (
	"context"
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/meetingcontext-mcp/internal/chunker"
	"github.com/dshills/meetingcontext-mcp/internal/source"
	"github.com/dshills/meetingcontext-mcp/internal/storage"
	"github.com/dshills/meetingcontext-mcp/pkg/types"
)

// Indexer coordinates the indexing pipeline: read -> chunk -> store
type Indexer struct {
	storage storage.Storage
	workers int
}

// Config contains configuration for the indexer
type Config struct {
	Workers      int  // Number of concurrent workers (default: runtime.NumCPU())
	BatchSize    int  // Number of meetings to commit per transaction (default: 20)
	MaxChars     int  // Chunk budget in characters (default: chunker.DefaultMaxChars)
	OverlapChars int  // Overlap between adjacent chunks (default: chunker.DefaultOverlapChars)
	ForceReindex bool // Re-chunk every meeting regardless of stored hashes
}

// Statistics contains statistics about one indexing operation
type Statistics struct {
	FilesRead       int
	MeetingsIndexed int
	MeetingsSkipped int
	MeetingsFailed  int
	ChunksCreated   int
	Duration        time.Duration
	ErrorMessages   []string
}

// New creates a new Indexer instance
func New(store storage.Storage) *Indexer {
	return &Indexer{
		storage: store,
		workers: runtime.NumCPU(),
	}
}

// applyDefaults fills zero-valued config fields
func applyDefaults(config *Config) *Config {
	if config == nil {
		config = &Config{}
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 20
	}
	if config.MaxChars <= 0 {
		config.MaxChars = chunker.DefaultMaxChars
	}
	if config.OverlapChars < 0 {
		config.OverlapChars = chunker.DefaultOverlapChars
	}
	return config
}

// IndexCorpus indexes every recordings CSV under inputPath. A single file
// path indexes just that file. Unchanged meetings are skipped unless the
// corpus chunking parameters changed or ForceReindex is set.
func (idx *Indexer) IndexCorpus(ctx context.Context, inputPath string, config *Config) (*Statistics, error) {
	config = applyDefaults(config)
	idx.workers = config.Workers

	chk, err := chunker.New(config.MaxChars, config.OverlapChars)
	if err != nil {
		return nil, fmt.Errorf("invalid chunking parameters: %w", err)
	}

	rootPath, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input path: %w", err)
	}

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	// Get or create corpus; parameter changes force a full re-chunk
	corpus, reindexAll, err := idx.getOrCreateCorpus(ctx, rootPath, config)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create corpus: %w", err)
	}
	force := config.ForceReindex || reindexAll

	// Discover recordings CSV files
	files, err := source.Discover(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	stats.FilesRead = len(files)

	// Read all meeting records up front; transcripts are small relative to
	// the chunk rows they produce
	records, err := source.ReadAll(files)
	if err != nil {
		return nil, fmt.Errorf("failed to read recordings: %w", err)
	}

	// Index meetings concurrently
	if err := idx.indexMeetings(ctx, chk, corpus, records, config, force, stats); err != nil {
		return nil, fmt.Errorf("failed to index meetings: %w", err)
	}

	// Update corpus statistics
	if err := idx.updateCorpusStats(ctx, corpus, config); err != nil {
		return nil, fmt.Errorf("failed to update corpus stats: %w", err)
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// getOrCreateCorpus retrieves an existing corpus or creates a new one. The
// second return value reports whether stored chunking parameters differ
// from the requested ones, which invalidates every stored chunk boundary.
func (idx *Indexer) getOrCreateCorpus(ctx context.Context, rootPath string, config *Config) (*storage.Corpus, bool, error) {
	corpus, err := idx.storage.GetCorpus(ctx, rootPath)
	if err == nil {
		changed := corpus.MaxChars != config.MaxChars || corpus.OverlapChars != config.OverlapChars
		return corpus, changed, nil
	}

	if err != storage.ErrNotFound {
		return nil, false, err
	}

	corpus = &storage.Corpus{
		RootPath:     rootPath,
		IndexVersion: storage.CurrentSchemaVersion,
		MaxChars:     config.MaxChars,
		OverlapChars: config.OverlapChars,
	}
	if err := idx.storage.CreateCorpus(ctx, corpus); err != nil {
		return nil, false, err
	}

	return corpus, false, nil
}

// indexMeetings indexes meeting records concurrently in batched transactions
func (idx *Indexer) indexMeetings(ctx context.Context, chk *chunker.Chunker, corpus *storage.Corpus,
	records []types.MeetingRecord, config *Config, force bool, stats *Statistics) error {

	// Create worker pool with semaphore
	semaphore := make(chan struct{}, idx.workers)

	// Track progress with atomic counters
	var (
		indexed int32
		skipped int32
		failed  int32
		chunks  int32
	)

	// Use errgroup for concurrent processing with error propagation
	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex // Protect stats.ErrorMessages

	batchSize := config.BatchSize
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[i:end]

		g.Go(func() error {
			return idx.indexBatch(gctx, chk, corpus, batch, force, semaphore,
				&indexed, &skipped, &failed, &chunks, &mu, stats)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	stats.MeetingsIndexed = int(indexed)
	stats.MeetingsSkipped = int(skipped)
	stats.MeetingsFailed = int(failed)
	stats.ChunksCreated = int(chunks)

	return nil
}

// indexBatch indexes a batch of meetings within a transaction
func (idx *Indexer) indexBatch(ctx context.Context, chk *chunker.Chunker, corpus *storage.Corpus,
	records []types.MeetingRecord, force bool, semaphore chan struct{},
	indexed, skipped, failed, chunks *int32, mu *sync.Mutex, stats *Statistics) error {

	tx, err := idx.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, record := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case semaphore <- struct{}{}:
			// Acquire semaphore
		}

		err := idx.indexMeeting(ctx, chk, tx, corpus, record, force, indexed, skipped, chunks)
		<-semaphore // Release semaphore

		if err != nil {
			atomic.AddInt32(failed, 1)
			mu.Lock()
			stats.ErrorMessages = append(stats.ErrorMessages,
				fmt.Sprintf("%s row %d: %v", record.SourceFile, record.RowIndex, err))
			mu.Unlock()
			// Continue with other meetings
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// indexMeeting chunks and stores a single meeting transcript
func (idx *Indexer) indexMeeting(ctx context.Context, chk *chunker.Chunker, store storage.Storage,
	corpus *storage.Corpus, record types.MeetingRecord, force bool,
	indexed, skipped, chunks *int32) error {

	if err := record.Validate(); err != nil {
		return err
	}

	hash := sha256.Sum256([]byte(record.Transcript))

	// Check if the transcript changed since the last run
	shouldSkip, err := idx.checkMeetingChanged(ctx, store, corpus.ID, record.MeetingKey, hash, force, skipped)
	if err != nil {
		return err
	}
	if shouldSkip {
		return nil
	}

	normalized := chunker.Normalize(record.Transcript)
	chunkRecords := chk.ChunkNormalized(record, normalized)

	meeting := &storage.Meeting{
		CorpusID:        corpus.ID,
		MeetingKey:      record.MeetingKey,
		DateYMD:         record.DateYMD,
		MeetingName:     record.MeetingName,
		SourceFile:      record.SourceFile,
		TranscriptHash:  hash,
		TranscriptChars: len(normalized),
		ChunkCount:      len(chunkRecords),
	}
	if err := store.UpsertMeeting(ctx, meeting); err != nil {
		return err
	}

	// Drop stale chunks before writing; a shorter transcript may produce
	// fewer chunks than the previous run
	if err := store.DeleteChunksByMeeting(ctx, meeting.ID); err != nil {
		return fmt.Errorf("failed to delete old chunks: %w", err)
	}

	for _, chunkRecord := range chunkRecords {
		storageChunk := &storage.Chunk{
			MeetingID:  meeting.ID,
			ChunkIndex: chunkRecord.ChunkIndex,
			ChunkKey:   chunkRecord.ChunkID,
			CharStart:  chunkRecord.CharStart,
			CharEnd:    chunkRecord.CharEnd,
			Content:    chunkRecord.Text,
		}
		if err := store.UpsertChunk(ctx, storageChunk); err != nil {
			return fmt.Errorf("failed to store chunk: %w", err)
		}
	}

	atomic.AddInt32(indexed, 1)
	atomic.AddInt32(chunks, int32(len(chunkRecords)))

	return nil
}

// checkMeetingChanged reports whether an unchanged meeting can be skipped
func (idx *Indexer) checkMeetingChanged(ctx context.Context, store storage.Storage, corpusID int64,
	meetingKey string, hash [32]byte, force bool, skipped *int32) (bool, error) {

	existing, err := store.GetMeeting(ctx, corpusID, meetingKey)
	if err == storage.ErrNotFound {
		// New meeting, needs indexing
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !force && existing.TranscriptHash == hash {
		// Transcript unchanged, skip
		atomic.AddInt32(skipped, 1)
		return true, nil
	}

	return false, nil
}

// updateCorpusStats refreshes the corpus meeting and chunk counts
func (idx *Indexer) updateCorpusStats(ctx context.Context, corpus *storage.Corpus, config *Config) error {
	meetings, err := idx.storage.ListMeetings(ctx, corpus.ID)
	if err != nil {
		return err
	}

	totalChunks := 0
	for _, meeting := range meetings {
		totalChunks += meeting.ChunkCount
	}

	corpus.TotalMeetings = len(meetings)
	corpus.TotalChunks = totalChunks
	corpus.MaxChars = config.MaxChars
	corpus.OverlapChars = config.OverlapChars
	corpus.LastIndexedAt = time.Now()

	return idx.storage.UpdateCorpus(ctx, corpus)
}
