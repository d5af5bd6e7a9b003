// Package graph builds and reads the marketing knowledge graph: entity and
// relationship extraction from articles, idempotent merge writes, and the
// retrieval primitives the query engine composes.
package graph

import (
	"context"

	"marketmind/pkg/common"
)

// Store is the property-graph adapter the writer and the query engine run
// against. Every write is a merge (get-or-create); every read is bounded.
// Implementations live in subpackages, keyed by backend.
type Store interface {
	// InitSchema declares uniqueness constraints and indexes. Safe to call
	// repeatedly.
	InitSchema(ctx context.Context) error

	// MergeArticle merge-creates the Article node keyed by the id derived
	// from the link and overwrites its scalar attributes. Returns the
	// article id.
	MergeArticle(ctx context.Context, article common.Article, extraction common.Extraction) (string, error)

	// MergeSource merge-creates the Source node and the PUBLISHES edge to
	// the article.
	MergeSource(ctx context.Context, source string, articleID string) error

	// MergeEntity merge-creates the Entity node and the MENTIONS edge from
	// the article. An already-set entity type is never overwritten.
	MergeEntity(ctx context.Context, articleID string, entity common.ExtractedEntity) error

	// MergeRelationship merge-creates both endpoint entities, one RELATES_TO
	// edge keyed by (from, to, type), and DESCRIBES_RELATIONSHIP edges from
	// the article to each endpoint.
	MergeRelationship(ctx context.Context, articleID string, rel common.ExtractedRelationship) error

	// SearchArticles is the keyword search every query handler uses:
	// case-insensitive substring match against title, summary or any topic,
	// newest first, capped at limit.
	SearchArticles(ctx context.Context, term string, limit int) ([]common.ArticleHit, error)

	// EntityNetwork returns the subgraph reachable from the named entity
	// within depth hops (capped at 5), visiting only Entity and Article
	// nodes, at most 100 paths.
	EntityNetwork(ctx context.Context, name string, depth int) (common.EntityNetwork, error)

	// TrendingTopics ranks topics by mention frequency among articles
	// published in the last days, top 20.
	TrendingTopics(ctx context.Context, days int) ([]common.TrendingTopic, error)

	// RelatedArticles ranks other articles by the number of entities they
	// share with the titled article.
	RelatedArticles(ctx context.Context, title string, limit int) ([]common.RelatedArticle, error)

	// Stats aggregates node counts by label, relationship counts by type
	// and article counts by source.
	Stats(ctx context.Context) (common.GraphStats, error)

	Close(ctx context.Context) error
}
