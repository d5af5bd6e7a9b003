package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"marketmind/pkg/ai"
	"marketmind/pkg/common"
)

// stubAIClient scripts completions: the first call returns classification,
// later calls return summary. Either can be forced to fail.
type stubAIClient struct {
	completion    string
	completionErr error

	classification string
	summary        string
	summaryErr     error

	completionCalls int
}

func (s *stubAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	s.completionCalls++
	if s.classification != "" {
		if s.completionCalls == 1 {
			return s.classification, nil
		}
		return s.summary, s.summaryErr
	}
	return s.completion, s.completionErr
}

func (s *stubAIClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	return errors.New("not used")
}

func (s *stubAIClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return nil, errors.New("not used")
}

func (s *stubAIClient) ResetMetrics()               {}
func (s *stubAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

// stubStore scripts search results per term and records traversal depths.
type stubStore struct {
	hitsByTerm map[string][]common.ArticleHit
	stats      common.GraphStats
	trending   []common.TrendingTopic

	searchErr error

	searchedTerms []string
	networkDepths map[string]int
}

func newStubStore() *stubStore {
	return &stubStore{
		hitsByTerm: map[string][]common.ArticleHit{},
		stats: common.GraphStats{
			Nodes:            map[string]int64{},
			Relationships:    map[string]int64{},
			ArticlesBySource: []common.SourceCount{},
		},
		networkDepths: map[string]int{},
	}
}

func (s *stubStore) InitSchema(ctx context.Context) error { return nil }

func (s *stubStore) MergeArticle(ctx context.Context, article common.Article, extraction common.Extraction) (string, error) {
	return article.ID(), nil
}

func (s *stubStore) MergeSource(ctx context.Context, source, articleID string) error { return nil }

func (s *stubStore) MergeEntity(ctx context.Context, articleID string, entity common.ExtractedEntity) error {
	return nil
}

func (s *stubStore) MergeRelationship(ctx context.Context, articleID string, rel common.ExtractedRelationship) error {
	return nil
}

func (s *stubStore) SearchArticles(ctx context.Context, term string, limit int) ([]common.ArticleHit, error) {
	s.searchedTerms = append(s.searchedTerms, term)
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	hits := s.hitsByTerm[term]
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (s *stubStore) EntityNetwork(ctx context.Context, name string, depth int) (common.EntityNetwork, error) {
	s.networkDepths[name] = depth
	return common.EntityNetwork{
		Entity:        name,
		Nodes:         []common.NetworkNode{},
		Relationships: []common.NetworkRelationship{},
	}, nil
}

func (s *stubStore) TrendingTopics(ctx context.Context, days int) ([]common.TrendingTopic, error) {
	return s.trending, nil
}

func (s *stubStore) RelatedArticles(ctx context.Context, title string, limit int) ([]common.RelatedArticle, error) {
	return nil, nil
}

func (s *stubStore) Stats(ctx context.Context) (common.GraphStats, error) {
	return s.stats, nil
}

func (s *stubStore) Close(ctx context.Context) error { return nil }

func hit(title string) common.ArticleHit {
	return common.ArticleHit{Title: title, Link: "https://x/" + title}
}

func TestNaturalLanguageQuery_EntitySearchDispatch(t *testing.T) {
	store := newStubStore()
	store.hitsByTerm["Google"] = []common.ArticleHit{hit("Google Analytics 4 Guide")}

	client := &stubAIClient{classification: "entity_search", summary: "Google is widely used."}
	engine := NewEngine(store, client)

	result := engine.NaturalLanguageQuery(context.Background(), "Tell me about Google Analytics")

	if result.QueryType != IntentEntitySearch {
		t.Fatalf("QueryType = %q, want entity_search", result.QueryType)
	}
	if result.Entity != "Google" {
		t.Fatalf("Entity = %q, want Google", result.Entity)
	}
	if len(result.Articles) != 1 || result.Articles[0].Title != "Google Analytics 4 Guide" {
		t.Fatalf("Articles = %v", result.Articles)
	}
	if result.Summary != "Google is widely used." {
		t.Fatalf("Summary = %q", result.Summary)
	}
	if store.networkDepths["Google"] != 2 {
		t.Fatalf("network depth = %d, want 2", store.networkDepths["Google"])
	}
}

func TestNaturalLanguageQuery_EntitySearchEmptyGraphSkipsModel(t *testing.T) {
	store := newStubStore()
	client := &stubAIClient{classification: "entity_search"}
	engine := NewEngine(store, client)

	result := engine.NaturalLanguageQuery(context.Background(), "Tell me about Google")

	if !strings.HasPrefix(result.Summary, "No information found about Google") {
		t.Fatalf("Summary = %q", result.Summary)
	}
	// One completion for classification, none for the summary.
	if client.completionCalls != 1 {
		t.Fatalf("completion calls = %d, want 1", client.completionCalls)
	}
}

func TestNaturalLanguageQuery_EntitySearchWithoutKnownEntityDelegates(t *testing.T) {
	store := newStubStore()
	client := &stubAIClient{classification: "entity_search", summaryErr: errors.New("down")}
	engine := NewEngine(store, client)

	result := engine.NaturalLanguageQuery(context.Background(), "Tell me about my corner bakery")

	if result.QueryType != IntentGeneralSearch {
		t.Fatalf("QueryType = %q, want general_search", result.QueryType)
	}
	if result.Stats == nil {
		t.Fatal("general_search result must carry stats")
	}
}

func TestNaturalLanguageQuery_TopicSearchDeduplicatesByTitle(t *testing.T) {
	store := newStubStore()
	shared := hit("The State of SEO")
	store.hitsByTerm["SEO"] = []common.ArticleHit{shared, hit("Ranking in 2026")}
	store.hitsByTerm["analytics"] = []common.ArticleHit{shared, hit("Dashboards that matter")}

	client := &stubAIClient{classification: "topic_search", summary: "SEO is changing."}
	engine := NewEngine(store, client)

	result := engine.NaturalLanguageQuery(context.Background(), "How do SEO and analytics interact?")

	if result.QueryType != IntentTopicSearch {
		t.Fatalf("QueryType = %q, want topic_search", result.QueryType)
	}
	count := 0
	for _, article := range result.Articles {
		if article.Title == "The State of SEO" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("deduplication failed: %q appears %d times", "The State of SEO", count)
	}
	if len(result.Articles) != 3 {
		t.Fatalf("Articles = %d, want 3 after dedupe", len(result.Articles))
	}
}

func TestNaturalLanguageQuery_RelationshipSearchNeedsTwoEntities(t *testing.T) {
	store := newStubStore()
	client := &stubAIClient{classification: "relationship_search", summaryErr: errors.New("down")}
	engine := NewEngine(store, client)

	result := engine.NaturalLanguageQuery(context.Background(), "How does HubSpot connect to everything?")

	if result.QueryType != IntentGeneralSearch {
		t.Fatalf("QueryType = %q, want general_search delegation", result.QueryType)
	}
}

func TestNaturalLanguageQuery_RelationshipSearchDepthOneNetworks(t *testing.T) {
	store := newStubStore()
	store.hitsByTerm["HubSpot Mailchimp"] = []common.ArticleHit{hit("Email platform shootout")}

	client := &stubAIClient{classification: "relationship_search", summary: "They compete."}
	engine := NewEngine(store, client)

	result := engine.NaturalLanguageQuery(context.Background(), "How do HubSpot and Mailchimp relate?")

	if result.QueryType != IntentRelationshipSearch {
		t.Fatalf("QueryType = %q", result.QueryType)
	}
	if len(result.Entities) < 2 || result.Entities[0] != "HubSpot" || result.Entities[1] != "Mailchimp" {
		t.Fatalf("Entities = %v", result.Entities)
	}
	if store.networkDepths["HubSpot"] != 1 || store.networkDepths["Mailchimp"] != 1 {
		t.Fatalf("network depths = %v, want 1 for both", store.networkDepths)
	}
	if len(result.Networks) != 2 {
		t.Fatalf("Networks = %d entries, want 2", len(result.Networks))
	}
}

func TestNaturalLanguageQuery_ClassifierFailureRoutesToGeneral(t *testing.T) {
	store := newStubStore()
	client := &stubAIClient{completionErr: errors.New("provider down")}
	engine := NewEngine(store, client)

	result := engine.NaturalLanguageQuery(context.Background(), "Tell me about Google")

	if result.QueryType != IntentGeneralSearch {
		t.Fatalf("QueryType = %q, want general_search", result.QueryType)
	}
	if !strings.HasPrefix(result.Summary, "No information found about 'Tell me about Google'") {
		t.Fatalf("Summary = %q", result.Summary)
	}
}

func TestNaturalLanguageQuery_SummaryFallbackOnModelFailure(t *testing.T) {
	store := newStubStore()
	store.hitsByTerm["Google"] = []common.ArticleHit{hit("A"), hit("B"), hit("C")}

	client := &stubAIClient{classification: "entity_search", summaryErr: errors.New("down")}
	engine := NewEngine(store, client)

	result := engine.NaturalLanguageQuery(context.Background(), "Tell me about Google")

	if result.Summary != "Found 3 articles about Google in the knowledge base." {
		t.Fatalf("Summary = %q", result.Summary)
	}
}

func TestGetInsights_TotalsFromNodeCounts(t *testing.T) {
	store := newStubStore()
	store.stats.Nodes = map[string]int64{"Article": 100, "Entity": 50}

	engine := NewEngine(store, &stubAIClient{})
	insights := engine.GetInsights(context.Background())

	if insights.TotalArticles != 100 || insights.TotalEntities != 50 || insights.TotalSources != 0 {
		t.Fatalf("totals = %d/%d/%d, want 100/50/0",
			insights.TotalArticles, insights.TotalEntities, insights.TotalSources)
	}
}

func TestNaturalLanguageQuery_DegradesWhenGraphUnavailable(t *testing.T) {
	store := newStubStore()
	store.searchErr = errors.New("connection refused")

	client := &stubAIClient{completionErr: errors.New("down")}
	engine := NewEngine(store, client)

	result := engine.NaturalLanguageQuery(context.Background(), "anything at all")

	if result.QueryType != IntentGeneralSearch {
		t.Fatalf("QueryType = %q", result.QueryType)
	}
	if len(result.Articles) != 0 {
		t.Fatalf("Articles = %v, want empty", result.Articles)
	}
	if result.Summary == "" {
		t.Fatal("Summary must be set even with every backend down")
	}
}
