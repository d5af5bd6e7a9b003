package query

import (
	"context"
	"strings"

	"marketmind/pkg/ai"
	"marketmind/pkg/common"
	"marketmind/pkg/graph"
	"marketmind/pkg/logger"
)

// Result is the structured, JSON-serializable answer to one natural
// language query. QueryType and Summary are always set; the remaining
// fields depend on the intent.
type Result struct {
	QueryType Intent `json:"query_type"`
	Summary   string `json:"summary"`

	Entity   string   `json:"entity,omitempty"`
	Entities []string `json:"entities,omitempty"`
	Topic    string   `json:"topic,omitempty"`
	KeyTerms []string `json:"key_terms,omitempty"`

	Articles       []common.ArticleHit `json:"articles,omitempty"`
	RecentArticles []common.ArticleHit `json:"recent_articles,omitempty"`

	Network  *common.EntityNetwork           `json:"network,omitempty"`
	Networks map[string]common.EntityNetwork `json:"networks,omitempty"`

	TrendingTopics []common.TrendingTopic `json:"trending_topics,omitempty"`
	Stats          *common.GraphStats     `json:"stats,omitempty"`
}

// Insights aggregates knowledge graph analytics for the insights endpoint.
type Insights struct {
	Statistics     common.GraphStats      `json:"statistics"`
	TrendingTopics []common.TrendingTopic `json:"trending_topics"`
	TotalArticles  int64                  `json:"total_articles"`
	TotalEntities  int64                  `json:"total_entities"`
	TotalSources   int64                  `json:"total_sources"`
}

// Engine classifies a query, dispatches to the matching intent handler and
// assembles evidence plus a synthesized summary. Recoverable failures
// (model down, graph query erroring) degrade the result instead of
// propagating; the engine never returns an error for a query.
type Engine struct {
	store      graph.Store
	client     ai.Client
	classifier *Classifier
}

// NewEngine returns an Engine over the given store and model client. The
// engine owns the store connection; call Close when done.
func NewEngine(store graph.Store, client ai.Client) *Engine {
	return &Engine{
		store:      store,
		client:     client,
		classifier: NewClassifier(client),
	}
}

// Close releases the graph store connection.
func (e *Engine) Close(ctx context.Context) error {
	return e.store.Close(ctx)
}

// NaturalLanguageQuery answers a free-text question against the knowledge
// graph.
func (e *Engine) NaturalLanguageQuery(ctx context.Context, query string) Result {
	intent := e.classifier.Classify(ctx, query)
	logger.Debug("[Query] classified", "query", query, "intent", intent)

	switch intent {
	case IntentEntitySearch:
		return e.handleEntitySearch(ctx, query)
	case IntentTopicSearch:
		return e.handleTopicSearch(ctx, query)
	case IntentTrending:
		return e.handleTrending(ctx, query)
	case IntentRelationshipSearch:
		return e.handleRelationshipSearch(ctx, query)
	default:
		return e.handleGeneralSearch(ctx, query)
	}
}

// GetInsights aggregates graph statistics and trending topics. Totals read
// the node counts by label; an absent label reads as zero.
func (e *Engine) GetInsights(ctx context.Context) Insights {
	stats, err := e.store.Stats(ctx)
	if err != nil {
		logger.Warn("[Query] stats aggregation failed", "err", err)
		stats = common.GraphStats{
			Nodes:            map[string]int64{},
			Relationships:    map[string]int64{},
			ArticlesBySource: []common.SourceCount{},
		}
	}

	trending := e.trendingTopics(ctx)

	return Insights{
		Statistics:     stats,
		TrendingTopics: trending,
		TotalArticles:  stats.Nodes["Article"],
		TotalEntities:  stats.Nodes["Entity"],
		TotalSources:   stats.Nodes["Source"],
	}
}

func (e *Engine) handleEntitySearch(ctx context.Context, query string) Result {
	entity, found := graph.MatchEntity(query)
	if !found {
		return e.handleGeneralSearch(ctx, query)
	}

	network := e.entityNetwork(ctx, entity, 2)
	articles := e.searchArticles(ctx, entity, 10)
	summary := e.entitySummary(ctx, entity, articles, network)

	return Result{
		QueryType: IntentEntitySearch,
		Entity:    entity,
		Summary:   summary,
		Articles:  articles,
		Network:   &network,
	}
}

func (e *Engine) handleTopicSearch(ctx context.Context, query string) Result {
	keyTerms := graph.KeyTerms(query)

	articles := []common.ArticleHit{}
	for _, term := range keyTerms {
		articles = append(articles, e.searchArticles(ctx, term, 10)...)
	}

	// Union of per-term passes, first occurrence of each title wins.
	seenTitles := map[string]struct{}{}
	unique := []common.ArticleHit{}
	for _, hit := range articles {
		if _, seen := seenTitles[hit.Title]; seen {
			continue
		}
		seenTitles[hit.Title] = struct{}{}
		unique = append(unique, hit)
	}
	if len(unique) > 15 {
		unique = unique[:15]
	}

	trending := e.trendingTopics(ctx)
	summary := e.topicSummary(ctx, query, unique, trending)

	return Result{
		QueryType:      IntentTopicSearch,
		Topic:          query,
		KeyTerms:       keyTerms,
		Summary:        summary,
		Articles:       unique,
		TrendingTopics: trending,
	}
}

func (e *Engine) handleTrending(ctx context.Context, query string) Result {
	trending := e.trendingTopics(ctx)
	recent := e.searchArticles(ctx, "trend", 10)
	summary := e.trendingSummary(ctx, trending, recent)

	return Result{
		QueryType:      IntentTrending,
		Summary:        summary,
		TrendingTopics: trending,
		RecentArticles: recent,
	}
}

func (e *Engine) handleRelationshipSearch(ctx context.Context, query string) Result {
	entities := graph.MatchEntities(query)
	if len(entities) < 2 {
		return e.handleGeneralSearch(ctx, query)
	}

	articles := e.searchArticles(ctx, entities[0]+" "+entities[1], 10)

	networks := map[string]common.EntityNetwork{}
	for _, entity := range entities[:2] {
		networks[entity] = e.entityNetwork(ctx, entity, 1)
	}

	summary := e.relationshipSummary(ctx, entities, articles, networks)

	return Result{
		QueryType: IntentRelationshipSearch,
		Entities:  entities,
		Summary:   summary,
		Articles:  articles,
		Networks:  networks,
	}
}

func (e *Engine) handleGeneralSearch(ctx context.Context, query string) Result {
	articles := e.searchArticles(ctx, query, 10)

	stats, err := e.store.Stats(ctx)
	if err != nil {
		logger.Warn("[Query] stats aggregation failed", "err", err)
		stats = common.GraphStats{
			Nodes:            map[string]int64{},
			Relationships:    map[string]int64{},
			ArticlesBySource: []common.SourceCount{},
		}
	}

	summary := e.generalSummary(ctx, query, articles)

	return Result{
		QueryType: IntentGeneralSearch,
		Summary:   summary,
		Articles:  articles,
		Stats:     &stats,
	}
}

// Degrading wrappers around the store. A failing read logs and yields empty
// evidence so the handler can still assemble a result.

func (e *Engine) searchArticles(ctx context.Context, term string, limit int) []common.ArticleHit {
	hits, err := e.store.SearchArticles(ctx, term, limit)
	if err != nil {
		logger.Warn("[Query] article search failed", "term", term, "err", err)
		return []common.ArticleHit{}
	}
	return hits
}

func (e *Engine) entityNetwork(ctx context.Context, name string, depth int) common.EntityNetwork {
	network, err := e.store.EntityNetwork(ctx, name, depth)
	if err != nil {
		logger.Warn("[Query] network traversal failed", "entity", name, "err", err)
		return common.EntityNetwork{
			Entity:        name,
			Nodes:         []common.NetworkNode{},
			Relationships: []common.NetworkRelationship{},
		}
	}
	return network
}

func (e *Engine) trendingTopics(ctx context.Context) []common.TrendingTopic {
	trending, err := e.store.TrendingTopics(ctx, 30)
	if err != nil {
		logger.Warn("[Query] trending aggregation failed", "err", err)
		return []common.TrendingTopic{}
	}
	return trending
}

// RelatedArticles surfaces articles sharing entities with the titled one.
func (e *Engine) RelatedArticles(ctx context.Context, title string, limit int) ([]common.RelatedArticle, error) {
	return e.store.RelatedArticles(ctx, title, limit)
}

func joinEntities(entities []string) string {
	return strings.Join(entities, ", ")
}
