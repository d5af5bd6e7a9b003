package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"marketmind/pkg/common"
	"marketmind/pkg/feed"
	"marketmind/pkg/graph"
	"marketmind/pkg/store"
)

type memArticleStorage struct {
	mu       sync.Mutex
	saved    map[string]common.Article
	saveErrs map[string]error
}

func newMemArticleStorage() *memArticleStorage {
	return &memArticleStorage{saved: make(map[string]common.Article), saveErrs: make(map[string]error)}
}

func (s *memArticleStorage) SaveArticle(_ context.Context, article common.Article) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveErrs[article.Link]; err != nil {
		return false, err
	}
	_, existed := s.saved[article.Link]
	s.saved[article.Link] = article
	return !existed, nil
}

func (s *memArticleStorage) GetByLink(_ context.Context, link string) (common.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	article, ok := s.saved[link]
	if !ok {
		return common.Article{}, store.ErrNotFound
	}
	return article, nil
}

func (s *memArticleStorage) ListRecent(_ context.Context, _ time.Time, _ int) ([]common.Article, error) {
	return nil, nil
}

func (s *memArticleStorage) CountBySource(_ context.Context) ([]common.SourceCount, error) {
	return nil, nil
}

type memGraphStore struct {
	mu       sync.Mutex
	articles []string
	sources  []string
	entities []common.ExtractedEntity
}

func (s *memGraphStore) InitSchema(context.Context) error { return nil }

func (s *memGraphStore) MergeArticle(_ context.Context, article common.Article, _ common.Extraction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := common.ArticleID(article.Link)
	s.articles = append(s.articles, id)
	return id, nil
}

func (s *memGraphStore) MergeSource(_ context.Context, source, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = append(s.sources, source)
	return nil
}

func (s *memGraphStore) MergeEntity(_ context.Context, _ string, entity common.ExtractedEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = append(s.entities, entity)
	return nil
}

func (s *memGraphStore) MergeRelationship(context.Context, string, common.ExtractedRelationship) error {
	return nil
}

func (s *memGraphStore) SearchArticles(context.Context, string, int) ([]common.ArticleHit, error) {
	return nil, nil
}

func (s *memGraphStore) EntityNetwork(context.Context, string, int) (common.EntityNetwork, error) {
	return common.EntityNetwork{}, nil
}

func (s *memGraphStore) TrendingTopics(context.Context, int) ([]common.TrendingTopic, error) {
	return nil, nil
}

func (s *memGraphStore) RelatedArticles(context.Context, string, int) ([]common.RelatedArticle, error) {
	return nil, nil
}

func (s *memGraphStore) Stats(context.Context) (common.GraphStats, error) {
	return common.GraphStats{}, nil
}

func (s *memGraphStore) Close(context.Context) error { return nil }

const testFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Marketing Weekly</title>
    <item>
      <title>Google updates its ad platform</title>
      <link>https://example.com/google-ads</link>
      <description>Google rolled out changes to automation in its advertising platform.</description>
      <pubDate>Mon, 24 Aug 2026 09:00:00 GMT</pubDate>
    </item>
    <item>
      <title>HubSpot launches new analytics</title>
      <link>https://example.com/hubspot-analytics</link>
      <description>HubSpot shipped an analytics overhaul for marketing teams.</description>
      <pubDate>Sun, 23 Aug 2026 09:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestPipelineRunStoresFetchedArticles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeedXML))
	}))
	defer server.Close()

	articles := newMemArticleStorage()
	graphStore := &memGraphStore{}
	pipeline := NewPipeline(PipelineParams{
		Fetcher:  feed.NewFetcher(nil, 10),
		Articles: articles,
		Writer:   graph.NewWriter(graphStore, graph.NewExtractor(nil)),
	})

	// Both URLs serve the same feed, so every link arrives twice and the
	// run must de-duplicate by link before processing.
	report, err := pipeline.Run(context.Background(), []string{server.URL + "/a", server.URL + "/b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Fetched != 2 {
		t.Fatalf("expected 2 unique articles fetched, got %d", report.Fetched)
	}
	if report.Stored != 2 {
		t.Fatalf("expected 2 articles stored, got %d", report.Stored)
	}
	if report.Failed != 0 {
		t.Fatalf("expected no failures, got %d", report.Failed)
	}
	if len(articles.saved) != 2 {
		t.Fatalf("expected 2 saved articles, got %d", len(articles.saved))
	}
	if got := articles.saved["https://example.com/google-ads"].Source; got != "Marketing Weekly" {
		t.Fatalf("expected source from feed title, got %q", got)
	}
	if len(graphStore.articles) != 2 {
		t.Fatalf("expected 2 graph article merges, got %d", len(graphStore.articles))
	}

	// The fallback extractor runs without a model and should still have
	// spotted the companies named in the items.
	names := make(map[string]bool)
	for _, entity := range graphStore.entities {
		names[entity.Name] = true
	}
	if !names["Google"] || !names["HubSpot"] {
		t.Fatalf("expected Google and HubSpot entities, got %v", names)
	}
}

func TestPipelineRetriesFlakyFeed(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeedXML))
	}))
	defer server.Close()

	articles := newMemArticleStorage()
	pipeline := NewPipeline(PipelineParams{
		Fetcher:  feed.NewFetcher(nil, 10),
		Articles: articles,
		Writer:   graph.NewWriter(&memGraphStore{}, nil),
	})

	report, err := pipeline.Run(context.Background(), []string{server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&requests); got < 2 {
		t.Fatalf("expected the failed fetch to be retried, saw %d requests", got)
	}
	if report.Stored != 2 {
		t.Fatalf("expected 2 articles stored after retry, got %d", report.Stored)
	}
}

func TestPipelineCountsArticleFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeedXML))
	}))
	defer server.Close()

	articles := newMemArticleStorage()
	articles.saveErrs["https://example.com/google-ads"] = context.DeadlineExceeded

	pipeline := NewPipeline(PipelineParams{
		Fetcher:  feed.NewFetcher(nil, 10),
		Articles: articles,
		Writer:   graph.NewWriter(&memGraphStore{}, nil),
	})

	report, err := pipeline.Run(context.Background(), []string{server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Stored != 1 || report.Failed != 1 {
		t.Fatalf("expected 1 stored and 1 failed, got %d stored %d failed", report.Stored, report.Failed)
	}
}

func TestProcessArticleRejectsInvalid(t *testing.T) {
	pipeline := NewPipeline(PipelineParams{
		Articles: newMemArticleStorage(),
		Writer:   graph.NewWriter(&memGraphStore{}, nil),
	})

	err := pipeline.ProcessArticle(context.Background(), common.Article{Title: "no link"})
	if err == nil {
		t.Fatal("expected validation error for article without link")
	}
}
