package storage

import (
	"context"
	"crypto/sha256"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	return storage
}

func testCorpus(t *testing.T, storage *SQLiteStorage) *Corpus {
	t.Helper()
	corpus := &Corpus{
		RootPath:     "/test/recordings",
		IndexVersion: "1.0.0",
		MaxChars:     1200,
		OverlapChars: 200,
	}
	require.NoError(t, storage.CreateCorpus(context.Background(), corpus))
	return corpus
}

func testMeeting(t *testing.T, storage *SQLiteStorage, corpusID int64, key string) *Meeting {
	t.Helper()
	meeting := &Meeting{
		CorpusID:        corpusID,
		MeetingKey:      key,
		DateYMD:         "2024-03-15",
		MeetingName:     "Weekly Sync",
		SourceFile:      "recordings/march.csv",
		TranscriptHash:  sha256.Sum256([]byte("transcript " + key)),
		TranscriptChars: 42,
	}
	require.NoError(t, storage.UpsertMeeting(context.Background(), meeting))
	return meeting
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage)
	assert.NotNil(t, storage.db)
}

func TestClose(t *testing.T) {
	storage := setupTestDB(t)
	err := storage.Close()
	assert.NoError(t, err)
}

func TestCreateCorpus(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := &Corpus{
		RootPath:     "/test/recordings",
		IndexVersion: "1.0.0",
		MaxChars:     1200,
		OverlapChars: 200,
	}

	err := storage.CreateCorpus(ctx, corpus)
	require.NoError(t, err)
	assert.Greater(t, corpus.ID, int64(0))

	// Try to create duplicate - should fail
	duplicate := &Corpus{
		RootPath:     "/test/recordings",
		IndexVersion: "1.0.0",
		MaxChars:     800,
		OverlapChars: 100,
	}
	err = storage.CreateCorpus(ctx, duplicate)
	assert.Error(t, err) // Unique constraint violation
}

func TestGetCorpus(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)

	retrieved, err := storage.GetCorpus(ctx, "/test/recordings")
	require.NoError(t, err)
	assert.Equal(t, corpus.ID, retrieved.ID)
	assert.Equal(t, corpus.RootPath, retrieved.RootPath)
	assert.Equal(t, 1200, retrieved.MaxChars)
	assert.Equal(t, 200, retrieved.OverlapChars)
}

func TestGetCorpus_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	_, err := storage.GetCorpus(ctx, "/nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCorpus(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)

	corpus.TotalMeetings = 10
	corpus.TotalChunks = 120
	corpus.LastIndexedAt = time.Now()

	err := storage.UpdateCorpus(ctx, corpus)
	require.NoError(t, err)

	updated, err := storage.GetCorpus(ctx, "/test/recordings")
	require.NoError(t, err)
	assert.Equal(t, 10, updated.TotalMeetings)
	assert.Equal(t, 120, updated.TotalChunks)
	assert.False(t, updated.LastIndexedAt.IsZero())
}

func TestUpsertMeeting(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)
	meeting := testMeeting(t, storage, corpus.ID, "weekly-sync")
	assert.Greater(t, meeting.ID, int64(0))

	// Upsert the same key again with new content
	updated := &Meeting{
		CorpusID:        corpus.ID,
		MeetingKey:      "weekly-sync",
		DateYMD:         "2024-03-22",
		MeetingName:     "Weekly Sync (moved)",
		SourceFile:      "recordings/march.csv",
		TranscriptHash:  sha256.Sum256([]byte("new transcript")),
		TranscriptChars: 99,
		ChunkCount:      3,
	}
	err := storage.UpsertMeeting(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, meeting.ID, updated.ID) // Same row, updated in place

	retrieved, err := storage.GetMeeting(ctx, corpus.ID, "weekly-sync")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-22", retrieved.DateYMD)
	assert.Equal(t, "Weekly Sync (moved)", retrieved.MeetingName)
	assert.Equal(t, updated.TranscriptHash, retrieved.TranscriptHash)
	assert.Equal(t, 3, retrieved.ChunkCount)
}

func TestGetMeeting_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)

	_, err := storage.GetMeeting(ctx, corpus.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMeetingByID(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)
	meeting := testMeeting(t, storage, corpus.ID, "weekly-sync")

	retrieved, err := storage.GetMeetingByID(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, "weekly-sync", retrieved.MeetingKey)

	_, err = storage.GetMeetingByID(ctx, meeting.ID+1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMeetings(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)
	testMeeting(t, storage, corpus.ID, "standup")
	testMeeting(t, storage, corpus.ID, "retro")

	meetings, err := storage.ListMeetings(ctx, corpus.ID)
	require.NoError(t, err)
	assert.Len(t, meetings, 2)

	// Empty corpus returns an empty slice, not nil
	other := &Corpus{RootPath: "/other", IndexVersion: "1.0.0", MaxChars: 100, OverlapChars: 0}
	require.NoError(t, storage.CreateCorpus(ctx, other))
	meetings, err = storage.ListMeetings(ctx, other.ID)
	require.NoError(t, err)
	assert.NotNil(t, meetings)
	assert.Empty(t, meetings)
}

func TestDeleteMeeting_CascadesChunks(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)
	meeting := testMeeting(t, storage, corpus.ID, "weekly-sync")

	chunk := &Chunk{
		MeetingID:  meeting.ID,
		ChunkIndex: 0,
		ChunkKey:   "0123456789abcdef0123456789abcdef01234567",
		CharStart:  0,
		CharEnd:    10,
		Content:    "Hello all.",
	}
	require.NoError(t, storage.UpsertChunk(ctx, chunk))

	err := storage.DeleteMeeting(ctx, meeting.ID)
	require.NoError(t, err)

	chunks, err := storage.ListChunksByMeeting(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestUpsertChunk(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)
	meeting := testMeeting(t, storage, corpus.ID, "weekly-sync")

	chunk := &Chunk{
		MeetingID:  meeting.ID,
		ChunkIndex: 0,
		ChunkKey:   "aaaa567890abcdef0123456789abcdef01234567",
		CharStart:  0,
		CharEnd:    12,
		Content:    "First chunk.",
	}
	err := storage.UpsertChunk(ctx, chunk)
	require.NoError(t, err)
	assert.Greater(t, chunk.ID, int64(0))

	// Upserting the same (meeting, index) replaces content in place
	replacement := &Chunk{
		MeetingID:  meeting.ID,
		ChunkIndex: 0,
		ChunkKey:   "bbbb567890abcdef0123456789abcdef01234567",
		CharStart:  0,
		CharEnd:    14,
		Content:    "Revised chunk.",
	}
	err = storage.UpsertChunk(ctx, replacement)
	require.NoError(t, err)
	assert.Equal(t, chunk.ID, replacement.ID)

	retrieved, err := storage.GetChunk(ctx, chunk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Revised chunk.", retrieved.Content)
	assert.Equal(t, 14, retrieved.CharEnd)
}

func TestListChunksByMeeting_Ordered(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)
	meeting := testMeeting(t, storage, corpus.ID, "weekly-sync")

	// Insert out of order
	for _, idx := range []int{2, 0, 1} {
		chunk := &Chunk{
			MeetingID:  meeting.ID,
			ChunkIndex: idx,
			ChunkKey:   fmt.Sprintf("%040d", idx),
			CharStart:  idx * 10,
			CharEnd:    idx*10 + 10,
			Content:    fmt.Sprintf("chunk %d", idx),
		}
		require.NoError(t, storage.UpsertChunk(ctx, chunk))
	}

	chunks, err := storage.ListChunksByMeeting(ctx, meeting.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
	}
}

func TestDeleteChunksByMeeting(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)
	meeting := testMeeting(t, storage, corpus.ID, "weekly-sync")
	other := testMeeting(t, storage, corpus.ID, "retro")

	for _, m := range []*Meeting{meeting, other} {
		chunk := &Chunk{
			MeetingID:  m.ID,
			ChunkIndex: 0,
			ChunkKey:   fmt.Sprintf("%040d", m.ID),
			CharStart:  0,
			CharEnd:    5,
			Content:    "hello",
		}
		require.NoError(t, storage.UpsertChunk(ctx, chunk))
	}

	require.NoError(t, storage.DeleteChunksByMeeting(ctx, meeting.ID))

	chunks, err := storage.ListChunksByMeeting(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = storage.ListChunksByMeeting(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestSearchText(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)

	meeting := &Meeting{
		CorpusID:       corpus.ID,
		MeetingKey:     "planning",
		DateYMD:        "2024-03-15",
		MeetingName:    "Planning",
		TranscriptHash: sha256.Sum256([]byte("planning")),
	}
	require.NoError(t, storage.UpsertMeeting(ctx, meeting))

	contents := []string{
		"We discussed the budget for next quarter.",
		"The deployment schedule slipped by a week.",
		"Budget approval is pending from finance.",
	}
	for i, content := range contents {
		chunk := &Chunk{
			MeetingID:  meeting.ID,
			ChunkIndex: i,
			ChunkKey:   fmt.Sprintf("%040d", i),
			CharStart:  i * 50,
			CharEnd:    i*50 + len(content),
			Content:    content,
		}
		require.NoError(t, storage.UpsertChunk(ctx, chunk))
	}

	results, err := storage.SearchText(ctx, corpus.ID, []string{"budget"}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Multiple terms match with OR semantics
	results, err = storage.SearchText(ctx, corpus.ID, []string{"budget", "deployment"}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	// Limit caps the result count
	results, err = storage.SearchText(ctx, corpus.ID, []string{"budget", "deployment"}, 1, nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// No terms yields no results
	results, err = storage.SearchText(ctx, corpus.ID, nil, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchText_Filters(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)

	dates := map[string]string{"standup": "2024-03-01", "retro": "2024-03-08"}
	for key, date := range dates {
		meeting := &Meeting{
			CorpusID:       corpus.ID,
			MeetingKey:     key,
			DateYMD:        date,
			MeetingName:    key,
			TranscriptHash: sha256.Sum256([]byte(key)),
		}
		require.NoError(t, storage.UpsertMeeting(ctx, meeting))
		chunk := &Chunk{
			MeetingID:  meeting.ID,
			ChunkIndex: 0,
			ChunkKey:   fmt.Sprintf("%040d", meeting.ID),
			CharStart:  0,
			CharEnd:    20,
			Content:    "action items for everyone",
		}
		require.NoError(t, storage.UpsertChunk(ctx, chunk))
	}

	results, err := storage.SearchText(ctx, corpus.ID, []string{"action"}, 10, &SearchFilters{DateYMD: "2024-03-08"})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = storage.SearchText(ctx, corpus.ID, []string{"action"}, 10, &SearchFilters{MeetingKey: "standup"})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = storage.SearchText(ctx, corpus.ID, []string{"action"}, 10, &SearchFilters{MeetingKey: "missing"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchText_EscapesWildcards(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)
	meeting := testMeeting(t, storage, corpus.ID, "weekly-sync")

	chunk := &Chunk{
		MeetingID:  meeting.ID,
		ChunkIndex: 0,
		ChunkKey:   fmt.Sprintf("%040d", 1),
		CharStart:  0,
		CharEnd:    22,
		Content:    "growth was 100% better",
	}
	require.NoError(t, storage.UpsertChunk(ctx, chunk))

	// A literal % must not act as a wildcard
	results, err := storage.SearchText(ctx, corpus.ID, []string{"100%"}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = storage.SearchText(ctx, corpus.ID, []string{"1%r"}, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGetStatus(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)
	meeting := testMeeting(t, storage, corpus.ID, "weekly-sync")

	chunk := &Chunk{
		MeetingID:  meeting.ID,
		ChunkIndex: 0,
		ChunkKey:   fmt.Sprintf("%040d", 1),
		CharStart:  0,
		CharEnd:    5,
		Content:    "hello",
	}
	require.NoError(t, storage.UpsertChunk(ctx, chunk))

	status, err := storage.GetStatus(ctx, corpus.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.MeetingsCount)
	assert.Equal(t, 1, status.ChunksCount)
	assert.True(t, status.Health.DatabaseAccessible)
	assert.True(t, status.Health.ChunksAvailable)
}

func TestTransaction_CommitAndRollback(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)

	// Committed transaction persists
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)
	meeting := &Meeting{
		CorpusID:       corpus.ID,
		MeetingKey:     "committed",
		TranscriptHash: sha256.Sum256([]byte("a")),
	}
	require.NoError(t, tx.UpsertMeeting(ctx, meeting))
	require.NoError(t, tx.Commit())

	_, err = storage.GetMeeting(ctx, corpus.ID, "committed")
	require.NoError(t, err)

	// Rolled back transaction leaves no trace
	tx, err = storage.BeginTx(ctx)
	require.NoError(t, err)
	dropped := &Meeting{
		CorpusID:       corpus.ID,
		MeetingKey:     "rolled-back",
		TranscriptHash: sha256.Sum256([]byte("b")),
	}
	require.NoError(t, tx.UpsertMeeting(ctx, dropped))
	require.NoError(t, tx.Rollback())

	_, err = storage.GetMeeting(ctx, corpus.ID, "rolled-back")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransaction_ReadsUseTransactionConnection(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	corpus := testCorpus(t, storage)
	meeting := testMeeting(t, storage, corpus.ID, "weekly-sync")

	chunk := &Chunk{
		MeetingID:  meeting.ID,
		ChunkIndex: 0,
		ChunkKey:   "cccc567890abcdef0123456789abcdef01234567",
		CharStart:  0,
		CharEnd:    12,
		Content:    "First chunk.",
	}
	require.NoError(t, storage.UpsertChunk(ctx, chunk))

	// The pool holds a single connection; reads inside an open
	// transaction must run on the transaction itself or they block.
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	got, err := tx.GetChunk(ctx, chunk.ID)
	require.NoError(t, err)
	assert.Equal(t, "First chunk.", got.Content)

	chunks, err := tx.ListChunksByMeeting(ctx, meeting.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	status, err := tx.GetStatus(ctx, corpus.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.MeetingsCount)
	assert.Equal(t, 1, status.ChunksCount)

	// Uncommitted writes are visible to reads on the same transaction
	pending := &Chunk{
		MeetingID:  meeting.ID,
		ChunkIndex: 1,
		ChunkKey:   "dddd567890abcdef0123456789abcdef01234567",
		CharStart:  12,
		CharEnd:    25,
		Content:    "Second chunk.",
	}
	require.NoError(t, tx.UpsertChunk(ctx, pending))

	chunks, err = tx.ListChunksByMeeting(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestTransaction_NestedNotSupported(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.BeginTx(ctx)
	assert.Error(t, err)
}

func TestMigrations_Idempotent(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	// Re-applying migrations on an up-to-date database is a no-op
	err := ApplyMigrations(context.Background(), storage.db)
	assert.NoError(t, err)
}
