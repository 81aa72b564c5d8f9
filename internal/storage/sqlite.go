package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Corpus operations

// createCorpusWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) createCorpusWithQuerier(ctx context.Context, q querier, corpus *Corpus) error {
	query := `
		INSERT INTO corpora (root_path, index_version, max_chars, overlap_chars, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		corpus.RootPath, corpus.IndexVersion, corpus.MaxChars,
		corpus.OverlapChars, now, now)
	if err != nil {
		return fmt.Errorf("failed to create corpus: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	corpus.ID = id
	corpus.CreatedAt = now
	corpus.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateCorpus(ctx context.Context, corpus *Corpus) error {
	return s.createCorpusWithQuerier(ctx, s.querier(), corpus)
}

// getCorpusWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getCorpusWithQuerier(ctx context.Context, q querier, rootPath string) (*Corpus, error) {
	query := `
		SELECT id, root_path, total_meetings, total_chunks, index_version,
		       max_chars, overlap_chars, last_indexed_at, created_at, updated_at
		FROM corpora
		WHERE root_path = ?
	`
	var corpus Corpus
	var lastIndexedAt sql.NullTime
	err := q.QueryRowContext(ctx, query, rootPath).Scan(
		&corpus.ID, &corpus.RootPath, &corpus.TotalMeetings, &corpus.TotalChunks,
		&corpus.IndexVersion, &corpus.MaxChars, &corpus.OverlapChars,
		&lastIndexedAt, &corpus.CreatedAt, &corpus.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastIndexedAt.Valid {
		corpus.LastIndexedAt = lastIndexedAt.Time
	}
	return &corpus, nil
}

func (s *SQLiteStorage) GetCorpus(ctx context.Context, rootPath string) (*Corpus, error) {
	return s.getCorpusWithQuerier(ctx, s.querier(), rootPath)
}

// updateCorpusWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) updateCorpusWithQuerier(ctx context.Context, q querier, corpus *Corpus) error {
	query := `
		UPDATE corpora
		SET total_meetings = ?, total_chunks = ?, max_chars = ?, overlap_chars = ?,
		    last_indexed_at = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	_, err := q.ExecContext(ctx, query,
		corpus.TotalMeetings, corpus.TotalChunks, corpus.MaxChars, corpus.OverlapChars,
		corpus.LastIndexedAt, now, corpus.ID)
	if err != nil {
		return fmt.Errorf("failed to update corpus: %w", err)
	}
	corpus.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateCorpus(ctx context.Context, corpus *Corpus) error {
	return s.updateCorpusWithQuerier(ctx, s.querier(), corpus)
}

// getCorpusByIDWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getCorpusByIDWithQuerier(ctx context.Context, q querier, corpusID int64) (*Corpus, error) {
	query := `
		SELECT id, root_path, total_meetings, total_chunks, index_version,
		       max_chars, overlap_chars, last_indexed_at, created_at, updated_at
		FROM corpora
		WHERE id = ?
	`
	var corpus Corpus
	var lastIndexedAt sql.NullTime
	err := q.QueryRowContext(ctx, query, corpusID).Scan(
		&corpus.ID, &corpus.RootPath, &corpus.TotalMeetings, &corpus.TotalChunks,
		&corpus.IndexVersion, &corpus.MaxChars, &corpus.OverlapChars,
		&lastIndexedAt, &corpus.CreatedAt, &corpus.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastIndexedAt.Valid {
		corpus.LastIndexedAt = lastIndexedAt.Time
	}
	return &corpus, nil
}

// Meeting operations

// upsertMeetingWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) upsertMeetingWithQuerier(ctx context.Context, q querier, meeting *Meeting) error {
	query := `
		INSERT INTO meetings (
			corpus_id, meeting_key, date_ymd, meeting_name, source_file,
			transcript_hash, transcript_chars, chunk_count,
			last_indexed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(corpus_id, meeting_key) DO UPDATE SET
			date_ymd = excluded.date_ymd,
			meeting_name = excluded.meeting_name,
			source_file = excluded.source_file,
			transcript_hash = excluded.transcript_hash,
			transcript_chars = excluded.transcript_chars,
			chunk_count = excluded.chunk_count,
			last_indexed_at = excluded.last_indexed_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		meeting.CorpusID, meeting.MeetingKey, meeting.DateYMD, meeting.MeetingName,
		meeting.SourceFile, meeting.TranscriptHash[:], meeting.TranscriptChars,
		meeting.ChunkCount, now, now, now).Scan(&meeting.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert meeting: %w", err)
	}

	meeting.LastIndexedAt = now
	meeting.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertMeeting(ctx context.Context, meeting *Meeting) error {
	return s.upsertMeetingWithQuerier(ctx, s.querier(), meeting)
}

const meetingColumns = `id, corpus_id, meeting_key, date_ymd, meeting_name, source_file,
	       transcript_hash, transcript_chars, chunk_count, last_indexed_at, created_at, updated_at`

// scanMeeting scans one meeting row from a row scanner
func scanMeeting(scan func(dest ...interface{}) error) (*Meeting, error) {
	var meeting Meeting
	var hash []byte
	err := scan(
		&meeting.ID, &meeting.CorpusID, &meeting.MeetingKey, &meeting.DateYMD,
		&meeting.MeetingName, &meeting.SourceFile, &hash, &meeting.TranscriptChars,
		&meeting.ChunkCount, &meeting.LastIndexedAt, &meeting.CreatedAt, &meeting.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	copy(meeting.TranscriptHash[:], hash)
	return &meeting, nil
}

// getMeetingWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getMeetingWithQuerier(ctx context.Context, q querier, corpusID int64, meetingKey string) (*Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE corpus_id = ? AND meeting_key = ?
	`
	meeting, err := scanMeeting(q.QueryRowContext(ctx, query, corpusID, meetingKey).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

func (s *SQLiteStorage) GetMeeting(ctx context.Context, corpusID int64, meetingKey string) (*Meeting, error) {
	return s.getMeetingWithQuerier(ctx, s.querier(), corpusID, meetingKey)
}

// getMeetingByIDWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getMeetingByIDWithQuerier(ctx context.Context, q querier, meetingID int64) (*Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE id = ?
	`
	meeting, err := scanMeeting(q.QueryRowContext(ctx, query, meetingID).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

func (s *SQLiteStorage) GetMeetingByID(ctx context.Context, meetingID int64) (*Meeting, error) {
	return s.getMeetingByIDWithQuerier(ctx, s.querier(), meetingID)
}

// listMeetingsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listMeetingsWithQuerier(ctx context.Context, q querier, corpusID int64) ([]*Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE corpus_id = ?
		ORDER BY date_ymd, meeting_key
	`
	rows, err := q.QueryContext(ctx, query, corpusID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	meetings := make([]*Meeting, 0)
	for rows.Next() {
		meeting, err := scanMeeting(rows.Scan)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	return meetings, rows.Err()
}

func (s *SQLiteStorage) ListMeetings(ctx context.Context, corpusID int64) ([]*Meeting, error) {
	return s.listMeetingsWithQuerier(ctx, s.querier(), corpusID)
}

// deleteMeetingWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteMeetingWithQuerier(ctx context.Context, q querier, meetingID int64) error {
	query := `DELETE FROM meetings WHERE id = ?`
	_, err := q.ExecContext(ctx, query, meetingID)
	return err
}

func (s *SQLiteStorage) DeleteMeeting(ctx context.Context, meetingID int64) error {
	return s.deleteMeetingWithQuerier(ctx, s.querier(), meetingID)
}

// Chunk operations

// upsertChunkWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) upsertChunkWithQuerier(ctx context.Context, q querier, chunk *Chunk) error {
	// Use atomic INSERT ... ON CONFLICT to avoid race conditions
	query := `
		INSERT INTO chunks (
			meeting_id, chunk_index, chunk_key, char_start, char_end, content,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(meeting_id, chunk_index)
		DO UPDATE SET
			chunk_key = excluded.chunk_key,
			char_start = excluded.char_start,
			char_end = excluded.char_end,
			content = excluded.content,
			updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		chunk.MeetingID, chunk.ChunkIndex, chunk.ChunkKey,
		chunk.CharStart, chunk.CharEnd, chunk.Content,
		now, now,
	).Scan(&chunk.ID, &chunk.CreatedAt, &chunk.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert chunk: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) UpsertChunk(ctx context.Context, chunk *Chunk) error {
	return s.upsertChunkWithQuerier(ctx, s.querier(), chunk)
}

const chunkColumns = `id, meeting_id, chunk_index, chunk_key, char_start, char_end, content,
	       created_at, updated_at`

// scanChunk scans one chunk row from a row scanner
func scanChunk(scan func(dest ...interface{}) error) (*Chunk, error) {
	var chunk Chunk
	err := scan(
		&chunk.ID, &chunk.MeetingID, &chunk.ChunkIndex, &chunk.ChunkKey,
		&chunk.CharStart, &chunk.CharEnd, &chunk.Content,
		&chunk.CreatedAt, &chunk.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// getChunkWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getChunkWithQuerier(ctx context.Context, q querier, chunkID int64) (*Chunk, error) {
	query := `
		SELECT ` + chunkColumns + `
		FROM chunks
		WHERE id = ?
	`
	chunk, err := scanChunk(q.QueryRowContext(ctx, query, chunkID).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

func (s *SQLiteStorage) GetChunk(ctx context.Context, chunkID int64) (*Chunk, error) {
	return s.getChunkWithQuerier(ctx, s.querier(), chunkID)
}

// listChunksByMeetingWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listChunksByMeetingWithQuerier(ctx context.Context, q querier, meetingID int64) ([]*Chunk, error) {
	query := `
		SELECT ` + chunkColumns + `
		FROM chunks
		WHERE meeting_id = ?
		ORDER BY chunk_index
	`
	rows, err := q.QueryContext(ctx, query, meetingID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	chunks := make([]*Chunk, 0)
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStorage) ListChunksByMeeting(ctx context.Context, meetingID int64) ([]*Chunk, error) {
	return s.listChunksByMeetingWithQuerier(ctx, s.querier(), meetingID)
}

// deleteChunksByMeetingWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteChunksByMeetingWithQuerier(ctx context.Context, q querier, meetingID int64) error {
	query := `DELETE FROM chunks WHERE meeting_id = ?`
	_, err := q.ExecContext(ctx, query, meetingID)
	return err
}

func (s *SQLiteStorage) DeleteChunksByMeeting(ctx context.Context, meetingID int64) error {
	return s.deleteChunksByMeetingWithQuerier(ctx, s.querier(), meetingID)
}

// Search operations

// searchTextWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) searchTextWithQuerier(ctx context.Context, q querier, corpusID int64, terms []string, limit int, filters *SearchFilters) ([]*Chunk, error) {
	if len(terms) == 0 {
		return []*Chunk{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	var conditions []string
	args := []interface{}{corpusID}
	for _, term := range terms {
		conditions = append(conditions, "c.content LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(term)+"%")
	}

	query := `
		SELECT c.id, c.meeting_id, c.chunk_index, c.chunk_key, c.char_start, c.char_end, c.content,
		       c.created_at, c.updated_at
		FROM chunks c
		JOIN meetings m ON c.meeting_id = m.id
		WHERE m.corpus_id = ?
		  AND (` + strings.Join(conditions, " OR ") + `)`

	if filters != nil {
		if filters.DateYMD != "" {
			query += " AND m.date_ymd = ?"
			args = append(args, filters.DateYMD)
		}
		if filters.MeetingKey != "" {
			query += " AND m.meeting_key = ?"
			args = append(args, filters.MeetingKey)
		}
	}

	query += `
		ORDER BY m.date_ymd DESC, m.meeting_key, c.chunk_index
		LIMIT ?`
	args = append(args, limit)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	chunks := make([]*Chunk, 0)
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStorage) SearchText(ctx context.Context, corpusID int64, terms []string, limit int, filters *SearchFilters) ([]*Chunk, error) {
	return s.searchTextWithQuerier(ctx, s.querier(), corpusID, terms, limit, filters)
}

// escapeLike escapes LIKE wildcards in a user-supplied term
func escapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, `%`, `\%`)
	term = strings.ReplaceAll(term, `_`, `\_`)
	return term
}

// Status operations

// getStatusWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getStatusWithQuerier(ctx context.Context, q querier, corpusID int64) (*CorpusStatus, error) {
	// Get corpus info
	corpus, err := s.getCorpusByIDWithQuerier(ctx, q, corpusID)
	if err != nil {
		return nil, err
	}

	status := &CorpusStatus{
		Corpus:        corpus,
		LastIndexedAt: corpus.LastIndexedAt,
	}

	// Count meetings
	var meetingCount int
	err = q.QueryRowContext(ctx, "SELECT COUNT(*) FROM meetings WHERE corpus_id = ?", corpusID).Scan(&meetingCount)
	if err != nil {
		return nil, err
	}
	status.MeetingsCount = meetingCount

	// Count chunks
	var chunkCount int
	err = q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chunks c
		JOIN meetings m ON c.meeting_id = m.id
		WHERE m.corpus_id = ?
	`, corpusID).Scan(&chunkCount)
	if err != nil {
		return nil, err
	}
	status.ChunksCount = chunkCount

	// Calculate database size
	var pageCount, pageSize int
	err = q.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	if err == nil {
		_ = q.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.IndexSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	// Check health status
	status.Health = HealthStatus{
		DatabaseAccessible: true,
		ChunksAvailable:    chunkCount > 0,
	}

	return status, nil
}

func (s *SQLiteStorage) GetStatus(ctx context.Context, corpusID int64) (*CorpusStatus, error) {
	return s.getStatusWithQuerier(ctx, s.querier(), corpusID)
}

// Transaction implementations

// Every operation runs on the transaction's querier; the pool holds a
// single connection, so reaching back to the storage while a transaction
// is open would block.

func (t *sqliteTx) CreateCorpus(ctx context.Context, corpus *Corpus) error {
	return t.storage.createCorpusWithQuerier(ctx, t.querier(), corpus)
}

func (t *sqliteTx) GetCorpus(ctx context.Context, rootPath string) (*Corpus, error) {
	return t.storage.getCorpusWithQuerier(ctx, t.querier(), rootPath)
}

func (t *sqliteTx) UpdateCorpus(ctx context.Context, corpus *Corpus) error {
	return t.storage.updateCorpusWithQuerier(ctx, t.querier(), corpus)
}

func (t *sqliteTx) UpsertMeeting(ctx context.Context, meeting *Meeting) error {
	return t.storage.upsertMeetingWithQuerier(ctx, t.querier(), meeting)
}

func (t *sqliteTx) GetMeeting(ctx context.Context, corpusID int64, meetingKey string) (*Meeting, error) {
	return t.storage.getMeetingWithQuerier(ctx, t.querier(), corpusID, meetingKey)
}

func (t *sqliteTx) GetMeetingByID(ctx context.Context, meetingID int64) (*Meeting, error) {
	return t.storage.getMeetingByIDWithQuerier(ctx, t.querier(), meetingID)
}

func (t *sqliteTx) ListMeetings(ctx context.Context, corpusID int64) ([]*Meeting, error) {
	return t.storage.listMeetingsWithQuerier(ctx, t.querier(), corpusID)
}

func (t *sqliteTx) DeleteMeeting(ctx context.Context, meetingID int64) error {
	return t.storage.deleteMeetingWithQuerier(ctx, t.querier(), meetingID)
}

func (t *sqliteTx) UpsertChunk(ctx context.Context, chunk *Chunk) error {
	return t.storage.upsertChunkWithQuerier(ctx, t.querier(), chunk)
}

func (t *sqliteTx) GetChunk(ctx context.Context, chunkID int64) (*Chunk, error) {
	return t.storage.getChunkWithQuerier(ctx, t.querier(), chunkID)
}

func (t *sqliteTx) ListChunksByMeeting(ctx context.Context, meetingID int64) ([]*Chunk, error) {
	return t.storage.listChunksByMeetingWithQuerier(ctx, t.querier(), meetingID)
}

func (t *sqliteTx) DeleteChunksByMeeting(ctx context.Context, meetingID int64) error {
	return t.storage.deleteChunksByMeetingWithQuerier(ctx, t.querier(), meetingID)
}

func (t *sqliteTx) SearchText(ctx context.Context, corpusID int64, terms []string, limit int, filters *SearchFilters) ([]*Chunk, error) {
	return t.storage.searchTextWithQuerier(ctx, t.querier(), corpusID, terms, limit, filters)
}

func (t *sqliteTx) GetStatus(ctx context.Context, corpusID int64) (*CorpusStatus, error) {
	return t.storage.getStatusWithQuerier(ctx, t.querier(), corpusID)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	// We return an error to prevent accidental misuse
	// If savepoints are needed in the future, implement here
	return nil, errors.New("nested transactions not supported")
}
