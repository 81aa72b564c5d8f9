package searcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/meetingcontext-mcp/internal/storage"
	"github.com/dshills/meetingcontext-mcp/pkg/types"
)

// SearchRequest contains parameters for a search operation
type SearchRequest struct {
	Query    string
	Limit    int
	Filters  *storage.SearchFilters
	CorpusID int64
	UseCache bool // Whether to use query cache
	CacheTTL time.Duration
}

// SearchResponse contains search results and metadata
type SearchResponse struct {
	Results      []types.SearchResult
	TotalResults int
	Duration     time.Duration
	CacheHit     bool
	TextResults  int // Candidate chunks fetched before scoring
}

// cacheEntry represents a cached search response with expiration time
type cacheEntry struct {
	response  *SearchResponse
	expiresAt time.Time
}

// Searcher coordinates keyword search over stored transcript chunks
type Searcher struct {
	storage storage.Storage
	cache   *lru.Cache[[32]byte, *cacheEntry]
	cacheMu sync.RWMutex
}

// NewSearcher creates a new Searcher instance
func NewSearcher(store storage.Storage) *Searcher {
	// Create LRU cache with 1000 entry limit
	// Cache will automatically evict least recently used entries
	cache, err := lru.New[[32]byte, *cacheEntry](1000)
	if err != nil {
		// This should never happen with valid size parameter
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	return &Searcher{
		storage: store,
		cache:   cache,
	}
}

// Search performs a keyword search based on the request parameters
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := time.Now()

	if err := s.validateRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	// Check cache if enabled
	if req.UseCache {
		cached, err := s.checkCache(req)
		if err == nil && cached != nil {
			cached.CacheHit = true
			cached.Duration = time.Since(startTime)
			return cached, nil
		}
	}

	response, err := s.keywordSearch(ctx, req)
	if err != nil {
		return nil, err
	}

	response.Duration = time.Since(startTime)

	// Store in cache if enabled
	if req.UseCache && len(response.Results) > 0 {
		s.storeInCache(req, response)
	}

	return response, nil
}

// keywordSearch fetches candidate chunks and ranks them by term overlap
func (s *Searcher) keywordSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	terms := Tokenize(req.Query)
	if len(terms) == 0 {
		return &SearchResponse{Results: []types.SearchResult{}}, nil
	}

	// Over-fetch so scoring has candidates to discard
	candidates, err := s.storage.SearchText(ctx, req.CorpusID, terms, req.Limit*4, req.Filters)
	if err != nil {
		return nil, err
	}

	ranked := rankChunks(candidates, terms)

	minRelevance := 0.0
	if req.Filters != nil {
		minRelevance = req.Filters.MinRelevance
	}

	results, err := s.fetchResults(ctx, ranked, req.Limit, minRelevance)
	if err != nil {
		return nil, err
	}

	return &SearchResponse{
		Results:      results,
		TotalResults: len(results),
		TextResults:  len(candidates),
	}, nil
}

// rankedResult pairs a candidate chunk with its relevance score
type rankedResult struct {
	chunk *storage.Chunk
	score float64
	rank  int
}

// rankChunks scores candidates and orders them by descending relevance.
// Candidate order is preserved for equal scores, so more recent meetings
// win ties.
func rankChunks(candidates []*storage.Chunk, terms []string) []rankedResult {
	ranked := make([]rankedResult, 0, len(candidates))
	for _, chunk := range candidates {
		score := scoreContent(chunk.Content, terms)
		if score == 0 {
			continue
		}
		ranked = append(ranked, rankedResult{chunk: chunk, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	for i := range ranked {
		ranked[i].rank = i + 1
	}

	return ranked
}

// scoreContent computes a relevance score in [0, 1]. Term coverage
// dominates; total occurrence count breaks ties between chunks matching
// the same terms.
func scoreContent(content string, terms []string) float64 {
	lower := strings.ToLower(content)

	matched := 0
	occurrences := 0
	for _, term := range terms {
		n := strings.Count(lower, term)
		if n > 0 {
			matched++
			occurrences += n
		}
	}

	if matched == 0 {
		return 0
	}

	coverage := float64(matched) / float64(len(terms))
	saturation := 1.0 - 1.0/float64(1+occurrences)

	return coverage*0.8 + saturation*0.2
}

// Tokenize splits a query into lowercase search terms. Runs of letters,
// digits, and connecting punctuation form one term, so CJK queries stay
// intact as phrases.
func Tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		switch r {
		case '-', '_', '\'':
			return false
		}
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' ||
			r == ',' || r == '.' || r == '?' || r == '!' || r == ';' ||
			r == ':' || r == '"' || r == '(' || r == ')' || r == '[' || r == ']'
	})

	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		terms = append(terms, field)
	}
	return terms
}

// fetchResults hydrates ranked chunks with their meeting metadata
func (s *Searcher) fetchResults(ctx context.Context, ranked []rankedResult, limit int, minRelevance float64) ([]types.SearchResult, error) {
	results := make([]types.SearchResult, 0, limit)
	meetings := make(map[int64]*storage.Meeting)

	for _, rr := range ranked {
		if len(results) >= limit {
			break
		}
		if rr.score < minRelevance {
			continue
		}

		meeting, ok := meetings[rr.chunk.MeetingID]
		if !ok {
			var err error
			meeting, err = s.storage.GetMeetingByID(ctx, rr.chunk.MeetingID)
			if err != nil {
				continue // Skip chunks whose meeting can't be loaded
			}
			meetings[rr.chunk.MeetingID] = meeting
		}

		results = append(results, types.SearchResult{
			ChunkID:        rr.chunk.ID,
			ChunkKey:       rr.chunk.ChunkKey,
			Rank:           len(results) + 1,
			RelevanceScore: rr.score,
			Meeting: &types.MeetingInfo{
				MeetingKey:  meeting.MeetingKey,
				DateYMD:     meeting.DateYMD,
				MeetingName: meeting.MeetingName,
				SourceFile:  meeting.SourceFile,
			},
			Content:   rr.chunk.Content,
			CharStart: rr.chunk.CharStart,
			CharEnd:   rr.chunk.CharEnd,
		})
	}

	return results, nil
}

// validateRequest ensures search request is valid
func (s *Searcher) validateRequest(req *SearchRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("query cannot be empty")
	}

	if req.Limit <= 0 {
		req.Limit = 10 // Default limit
	}

	if req.Limit > 100 {
		req.Limit = 100 // Max limit
	}

	if req.CacheTTL == 0 {
		req.CacheTTL = 1 * time.Hour // Default TTL
	}

	return nil
}

// checkCache looks up cached search results
func (s *Searcher) checkCache(req SearchRequest) (*SearchResponse, error) {
	hash := computeQueryHash(req)
	now := time.Now()

	s.cacheMu.RLock()
	entry, found := s.cache.Get(hash)

	if !found {
		s.cacheMu.RUnlock()
		return nil, fmt.Errorf("cache miss")
	}

	if now.After(entry.expiresAt) {
		s.cacheMu.RUnlock()

		// Remove expired entry under the write lock
		s.cacheMu.Lock()
		s.cache.Remove(hash)
		s.cacheMu.Unlock()
		return nil, fmt.Errorf("cache expired")
	}

	// Return a copy while still holding the read lock so the entry isn't
	// modified during the copy
	response := copySearchResponse(entry.response)
	s.cacheMu.RUnlock()

	return response, nil
}

// storeInCache saves search results to cache
func (s *Searcher) storeInCache(req SearchRequest, response *SearchResponse) {
	hash := computeQueryHash(req)

	entry := &cacheEntry{
		response:  copySearchResponse(response),
		expiresAt: time.Now().Add(req.CacheTTL),
	}

	s.cacheMu.Lock()
	s.cache.Add(hash, entry)
	s.cacheMu.Unlock()
}

// copySearchResponse creates a deep copy of a SearchResponse
func copySearchResponse(src *SearchResponse) *SearchResponse {
	if src == nil {
		return nil
	}

	dst := &SearchResponse{
		TotalResults: src.TotalResults,
		Duration:     src.Duration,
		CacheHit:     src.CacheHit,
		TextResults:  src.TextResults,
		Results:      make([]types.SearchResult, len(src.Results)),
	}

	for i, result := range src.Results {
		dst.Results[i] = result
		if result.Meeting != nil {
			meetingCopy := *result.Meeting
			dst.Results[i].Meeting = &meetingCopy
		}
	}

	return dst
}

// computeQueryHash computes a unique hash for a search request
func computeQueryHash(req SearchRequest) [32]byte {
	var data strings.Builder
	data.WriteString(req.Query)
	data.WriteString("|")
	data.WriteString(fmt.Sprintf("%d|%d", req.CorpusID, req.Limit))

	if req.Filters != nil {
		data.WriteString("|filters:")
		data.WriteString(req.Filters.DateYMD)
		data.WriteString("|")
		data.WriteString(req.Filters.MeetingKey)
		data.WriteString("|")
		data.WriteString(fmt.Sprintf("%.2f", req.Filters.MinRelevance))
	}

	return sha256.Sum256([]byte(data.String()))
}

// InvalidateCache drops every cached query. Invalidation happens on
// re-indexing, so purging the whole cache is acceptable.
func (s *Searcher) InvalidateCache() {
	s.cacheMu.Lock()
	s.cache.Purge()
	s.cacheMu.Unlock()
}
