package neo4j

import (
	"context"

	"marketmind/pkg/common"
)

const mergeArticleCypher = `
MERGE (article:Article {id: $article_id})
SET article.title = $title,
    article.link = $link,
    article.summary = $summary,
    article.published = $published,
    article.topics = $topics,
    article.insights = $insights,
    article.trends = $trends
`

const mergeSourceCypher = `
MATCH (article:Article {id: $article_id})
MERGE (source:Source {name: $source})
MERGE (source)-[:PUBLISHES]->(article)
`

// Entity type is first-write-wins: a later null or conflicting type never
// overwrites one that is already set.
const mergeEntityCypher = `
MATCH (article:Article {id: $article_id})
MERGE (entity:Entity {name: $name})
ON CREATE SET entity.type = $type
ON MATCH SET entity.type = CASE
    WHEN entity.type IS NULL THEN $type
    ELSE entity.type
END
MERGE (article)-[:MENTIONS]->(entity)
`

// RELATES_TO edges are keyed by (from, to, type) and carry the description;
// the article is linked to both endpoints as the relationship's witness.
const mergeRelationshipCypher = `
MATCH (article:Article {id: $article_id})
MERGE (from:Entity {name: $from_name})
MERGE (to:Entity {name: $to_name})
MERGE (from)-[r:RELATES_TO {type: $rel_type, description: $description}]->(to)
MERGE (article)-[:DESCRIBES_RELATIONSHIP]->(from)
MERGE (article)-[:DESCRIBES_RELATIONSHIP]->(to)
`

// MergeArticle merge-creates the Article node keyed by the link-derived id
// and overwrites its scalar attributes (last-write-wins).
func (s *Store) MergeArticle(ctx context.Context, article common.Article, extraction common.Extraction) (string, error) {
	extraction.Normalize()
	articleID := article.ID()

	err := s.write(ctx, mergeArticleCypher, map[string]any{
		"article_id": articleID,
		"title":      article.Title,
		"link":       article.Link,
		"summary":    article.BestSummary(),
		"published":  article.Published,
		"topics":     extraction.Topics,
		"insights":   extraction.Insights,
		"trends":     extraction.Trends,
	})
	if err != nil {
		return "", err
	}
	return articleID, nil
}

// MergeSource merge-creates the Source node and its PUBLISHES edge.
func (s *Store) MergeSource(ctx context.Context, source string, articleID string) error {
	return s.write(ctx, mergeSourceCypher, map[string]any{
		"article_id": articleID,
		"source":     source,
	})
}

// MergeEntity merge-creates the Entity node and the MENTIONS edge.
func (s *Store) MergeEntity(ctx context.Context, articleID string, entity common.ExtractedEntity) error {
	var entityType any
	if entity.Type != "" {
		entityType = entity.Type
	}
	return s.write(ctx, mergeEntityCypher, map[string]any{
		"article_id": articleID,
		"name":       entity.Name,
		"type":       entityType,
	})
}

// MergeRelationship merge-creates both endpoints, the RELATES_TO edge and
// the DESCRIBES_RELATIONSHIP edges.
func (s *Store) MergeRelationship(ctx context.Context, articleID string, rel common.ExtractedRelationship) error {
	return s.write(ctx, mergeRelationshipCypher, map[string]any{
		"article_id":  articleID,
		"from_name":   rel.From,
		"to_name":     rel.To,
		"rel_type":    rel.Relationship,
		"description": rel.Description,
	})
}
