// Package searcher provides keyword search over indexed meeting chunks.
//
// Queries are tokenized into terms, candidate chunks are fetched from
// storage with a LIKE match per term, and candidates are ranked by term
// coverage with occurrence count breaking ties. Scores are normalized to
// [0, 1].
//
// # Basic Usage
//
//	search := searcher.NewSearcher(store)
//
//	response, err := search.Search(ctx, searcher.SearchRequest{
//	    CorpusID: corpus.ID,
//	    Query:    "quarterly budget",
//	    Limit:    10,
//	})
//
//	for _, result := range response.Results {
//	    fmt.Printf("%d. [%.2f] %s (%s)\n",
//	        result.Rank, result.RelevanceScore,
//	        result.Meeting.MeetingName, result.Meeting.DateYMD)
//	}
//
// # Filters
//
// Results can be narrowed to a meeting date or a single meeting, and a
// minimum relevance score can cut low-confidence matches:
//
//	response, err := search.Search(ctx, searcher.SearchRequest{
//	    CorpusID: corpus.ID,
//	    Query:    "action items",
//	    Filters: &storage.SearchFilters{
//	        DateYMD:      "2024-03-15",
//	        MinRelevance: 0.5,
//	    },
//	})
//
// # Query Cache
//
// Repeated queries can be served from an in-memory LRU cache:
//
//	response, err := search.Search(ctx, searcher.SearchRequest{
//	    CorpusID: corpus.ID,
//	    Query:    "deployment",
//	    UseCache: true,
//	    CacheTTL: 5 * time.Minute,
//	})
//
// The cache holds up to 1000 entries and is purged whenever the corpus is
// re-indexed.
package searcher
