package searcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/meetingcontext-mcp/internal/storage"
)

func setupSearchData(t *testing.T) (*Searcher, *storage.Corpus, *storage.SQLiteStorage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	corpus := &storage.Corpus{
		RootPath:     "/test/recordings",
		IndexVersion: "1.0.0",
		MaxChars:     1200,
		OverlapChars: 200,
	}
	require.NoError(t, store.CreateCorpus(ctx, corpus))

	meetings := []struct {
		key, date, name string
		chunks          []string
	}{
		{"planning", "2024-03-01", "Planning", []string{
			"The budget for next quarter was approved.",
			"Hiring will slow down until the budget review. Budget is tight.",
		}},
		{"retro", "2024-03-08", "Sprint Retro", []string{
			"Deployment went smoothly this sprint.",
			"One incident involved the staging database.",
		}},
	}

	for _, m := range meetings {
		meeting := &storage.Meeting{
			CorpusID:       corpus.ID,
			MeetingKey:     m.key,
			DateYMD:        m.date,
			MeetingName:    m.name,
			SourceFile:     "recordings.csv",
			TranscriptHash: sha256.Sum256([]byte(m.key)),
		}
		require.NoError(t, store.UpsertMeeting(ctx, meeting))

		for i, content := range m.chunks {
			chunk := &storage.Chunk{
				MeetingID:  meeting.ID,
				ChunkIndex: i,
				ChunkKey:   fmt.Sprintf("%040d", meeting.ID*100+int64(i)),
				CharStart:  i * 100,
				CharEnd:    i*100 + len(content),
				Content:    content,
			}
			require.NoError(t, store.UpsertChunk(ctx, chunk))
		}
	}

	return NewSearcher(store), corpus, store
}

func TestSearch(t *testing.T) {
	search, corpus, _ := setupSearchData(t)

	response, err := search.Search(context.Background(), SearchRequest{
		CorpusID: corpus.ID,
		Query:    "budget",
		Limit:    10,
	})
	require.NoError(t, err)

	require.Equal(t, 2, response.TotalResults)
	assert.False(t, response.CacheHit)

	// The chunk mentioning budget twice ranks first
	assert.Contains(t, response.Results[0].Content, "Budget is tight")
	assert.Equal(t, 1, response.Results[0].Rank)
	assert.Equal(t, 2, response.Results[1].Rank)
	assert.Greater(t, response.Results[0].RelevanceScore, response.Results[1].RelevanceScore)

	// Every result is fully populated and valid
	for i := range response.Results {
		require.NoError(t, response.Results[i].Validate())
		assert.Equal(t, "Planning", response.Results[i].Meeting.MeetingName)
		assert.Len(t, response.Results[i].ChunkKey, 40)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	search, corpus, _ := setupSearchData(t)

	_, err := search.Search(context.Background(), SearchRequest{
		CorpusID: corpus.ID,
		Query:    "   ",
	})
	assert.Error(t, err)
}

func TestSearch_NoMatches(t *testing.T) {
	search, corpus, _ := setupSearchData(t)

	response, err := search.Search(context.Background(), SearchRequest{
		CorpusID: corpus.ID,
		Query:    "zeppelin",
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Empty(t, response.Results)
	assert.Equal(t, 0, response.TotalResults)
}

func TestSearch_MultiTermCoverage(t *testing.T) {
	search, corpus, _ := setupSearchData(t)

	// A chunk matching both terms outranks chunks matching one
	response, err := search.Search(context.Background(), SearchRequest{
		CorpusID: corpus.ID,
		Query:    "budget hiring",
		Limit:    10,
	})
	require.NoError(t, err)
	require.NotEmpty(t, response.Results)
	assert.Contains(t, response.Results[0].Content, "Hiring")
}

func TestSearch_Filters(t *testing.T) {
	search, corpus, _ := setupSearchData(t)
	ctx := context.Background()

	// Both meetings mention "the"; a date filter narrows to one
	response, err := search.Search(ctx, SearchRequest{
		CorpusID: corpus.ID,
		Query:    "the",
		Limit:    10,
		Filters:  &storage.SearchFilters{DateYMD: "2024-03-08"},
	})
	require.NoError(t, err)
	for _, result := range response.Results {
		assert.Equal(t, "retro", result.Meeting.MeetingKey)
	}

	// MinRelevance drops weak matches
	response, err = search.Search(ctx, SearchRequest{
		CorpusID: corpus.ID,
		Query:    "budget hiring",
		Limit:    10,
		Filters:  &storage.SearchFilters{MinRelevance: 0.9},
	})
	require.NoError(t, err)
	for _, result := range response.Results {
		assert.GreaterOrEqual(t, result.RelevanceScore, 0.9)
	}
}

func TestSearch_LimitApplied(t *testing.T) {
	search, corpus, _ := setupSearchData(t)

	response, err := search.Search(context.Background(), SearchRequest{
		CorpusID: corpus.ID,
		Query:    "the",
		Limit:    1,
	})
	require.NoError(t, err)
	assert.Len(t, response.Results, 1)
}

func TestSearch_Cache(t *testing.T) {
	search, corpus, _ := setupSearchData(t)
	ctx := context.Background()

	req := SearchRequest{
		CorpusID: corpus.ID,
		Query:    "budget",
		Limit:    10,
		UseCache: true,
		CacheTTL: time.Minute,
	}

	first, err := search.Search(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := search.Search(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.TotalResults, second.TotalResults)

	// Invalidation forces a fresh search
	search.InvalidateCache()
	third, err := search.Search(ctx, req)
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
}

func TestSearch_CacheExpiry(t *testing.T) {
	search, corpus, _ := setupSearchData(t)
	ctx := context.Background()

	req := SearchRequest{
		CorpusID: corpus.ID,
		Query:    "budget",
		Limit:    10,
		UseCache: true,
		CacheTTL: -time.Second, // Already expired when stored
	}

	_, err := search.Search(ctx, req)
	require.NoError(t, err)

	response, err := search.Search(ctx, req)
	require.NoError(t, err)
	assert.False(t, response.CacheHit)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"simple", "Budget Review", []string{"budget", "review"}},
		{"punctuation", "what happened, exactly?", []string{"what", "happened", "exactly"}},
		{"dedupe", "budget budget BUDGET", []string{"budget"}},
		{"hyphen kept", "re-index the corpus", []string{"re-index", "the", "corpus"}},
		{"korean phrase", "예산 검토", []string{"예산", "검토"}},
		{"empty", "  ,  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.query)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreContent(t *testing.T) {
	terms := []string{"budget", "hiring"}

	full := scoreContent("budget and hiring plans", terms)
	partial := scoreContent("budget only here", terms)
	none := scoreContent("nothing relevant", terms)

	assert.Greater(t, full, partial)
	assert.Greater(t, partial, 0.0)
	assert.Zero(t, none)

	// Scores stay within [0, 1] even with many occurrences
	repeated := scoreContent("budget budget budget budget hiring hiring", terms)
	assert.LessOrEqual(t, repeated, 1.0)
	assert.Greater(t, repeated, full)
}
