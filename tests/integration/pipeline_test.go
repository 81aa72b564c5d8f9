package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dshills/meetingcontext-mcp/internal/indexer"
	"github.com/dshills/meetingcontext-mcp/internal/searcher"
	"github.com/dshills/meetingcontext-mcp/internal/storage"
)

// PipelineTestSuite exercises the full read -> chunk -> store -> search flow
type PipelineTestSuite struct {
	suite.Suite
	storage     *storage.SQLiteStorage
	indexer     *indexer.Indexer
	searcher    *searcher.Searcher
	fixturesDir string
	ctx         context.Context
}

// SetupSuite runs once before all tests
func (s *PipelineTestSuite) SetupSuite() {
	s.ctx = context.Background()

	wd, err := os.Getwd()
	s.Require().NoError(err)
	s.fixturesDir = filepath.Join(filepath.Dir(wd), "testdata", "fixtures")

	_, err = os.Stat(s.fixturesDir)
	s.Require().NoError(err, "fixtures directory should exist")
}

// SetupTest runs before each test
func (s *PipelineTestSuite) SetupTest() {
	store, err := storage.NewSQLiteStorage(":memory:")
	s.Require().NoError(err)
	s.storage = store

	s.indexer = indexer.New(s.storage)
	s.searcher = searcher.NewSearcher(s.storage)
}

// TearDownTest runs after each test
func (s *PipelineTestSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *PipelineTestSuite) corpus() *storage.Corpus {
	rootPath, err := filepath.Abs(s.fixturesDir)
	s.Require().NoError(err)
	corpus, err := s.storage.GetCorpus(s.ctx, rootPath)
	s.Require().NoError(err)
	return corpus
}

func (s *PipelineTestSuite) TestIndexFixtures() {
	stats, err := s.indexer.IndexCorpus(s.ctx, s.fixturesDir, nil)
	s.Require().NoError(err)

	s.Equal(1, stats.FilesRead)
	s.Equal(3, stats.MeetingsIndexed)
	s.Equal(0, stats.MeetingsFailed)
	s.Greater(stats.ChunksCreated, 0)
	s.Empty(stats.ErrorMessages)

	corpus := s.corpus()
	s.Equal(3, corpus.TotalMeetings)
	s.Equal(stats.ChunksCreated, corpus.TotalChunks)
}

func (s *PipelineTestSuite) TestChunkOffsetsCoverTranscript() {
	// A small budget forces multi-chunk meetings
	_, err := s.indexer.IndexCorpus(s.ctx, s.fixturesDir, &indexer.Config{
		MaxChars:     60,
		OverlapChars: 15,
	})
	s.Require().NoError(err)

	corpus := s.corpus()
	meetings, err := s.storage.ListMeetings(s.ctx, corpus.ID)
	s.Require().NoError(err)
	s.Require().Len(meetings, 3)

	for _, meeting := range meetings {
		chunks, err := s.storage.ListChunksByMeeting(s.ctx, meeting.ID)
		s.Require().NoError(err)
		s.Require().NotEmpty(chunks)

		// First chunk starts at zero, last ends at the transcript length,
		// and consecutive chunks overlap or touch
		s.Equal(0, chunks[0].CharStart)
		s.Equal(meeting.TranscriptChars, chunks[len(chunks)-1].CharEnd)
		for i := 1; i < len(chunks); i++ {
			s.LessOrEqual(chunks[i].CharStart, chunks[i-1].CharEnd)
			s.Greater(chunks[i].CharEnd, chunks[i-1].CharEnd)
		}
	}
}

func (s *PipelineTestSuite) TestKoreanDateDerivedFromName() {
	_, err := s.indexer.IndexCorpus(s.ctx, s.fixturesDir, nil)
	s.Require().NoError(err)

	corpus := s.corpus()
	meetings, err := s.storage.ListMeetings(s.ctx, corpus.ID)
	s.Require().NoError(err)

	var found bool
	for _, meeting := range meetings {
		if meeting.MeetingName == "2024년 3월 20일 주간 회의" {
			found = true
			s.Equal("2024-03-20", meeting.DateYMD)
			s.NotEmpty(meeting.MeetingKey)
		}
	}
	s.True(found, "korean meeting should be indexed")
}

func (s *PipelineTestSuite) TestSearchAfterIndexing() {
	_, err := s.indexer.IndexCorpus(s.ctx, s.fixturesDir, nil)
	s.Require().NoError(err)

	corpus := s.corpus()

	response, err := s.searcher.Search(s.ctx, searcher.SearchRequest{
		CorpusID: corpus.ID,
		Query:    "quarterly budget",
		Limit:    10,
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(response.Results)
	s.Equal("weekly-sync", response.Results[0].Meeting.MeetingKey)
	s.Contains(response.Results[0].Content, "budget")

	// Korean keyword search reaches the Korean transcript
	response, err = s.searcher.Search(s.ctx, searcher.SearchRequest{
		CorpusID: corpus.ID,
		Query:    "예산",
		Limit:    10,
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(response.Results)
	s.Contains(response.Results[0].Content, "예산")
}

func (s *PipelineTestSuite) TestReindexIsStable() {
	first, err := s.indexer.IndexCorpus(s.ctx, s.fixturesDir, nil)
	s.Require().NoError(err)

	second, err := s.indexer.IndexCorpus(s.ctx, s.fixturesDir, nil)
	s.Require().NoError(err)
	s.Equal(0, second.MeetingsIndexed)
	s.Equal(3, second.MeetingsSkipped)

	// Chunk keys are deterministic across runs
	third, err := s.indexer.IndexCorpus(s.ctx, s.fixturesDir, &indexer.Config{ForceReindex: true})
	s.Require().NoError(err)
	s.Equal(first.ChunksCreated, third.ChunksCreated)

	corpus := s.corpus()
	meetings, err := s.storage.ListMeetings(s.ctx, corpus.ID)
	s.Require().NoError(err)
	for _, meeting := range meetings {
		chunks, err := s.storage.ListChunksByMeeting(s.ctx, meeting.ID)
		s.Require().NoError(err)
		for _, chunk := range chunks {
			s.Len(chunk.ChunkKey, 40)
		}
	}
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}
