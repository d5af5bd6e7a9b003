package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"marketmind/pkg/common"
)

const searchArticlesCypher = `
MATCH (article:Article)
WHERE toLower(article.title) CONTAINS toLower($term)
   OR toLower(article.summary) CONTAINS toLower($term)
   OR any(topic IN article.topics WHERE toLower(topic) CONTAINS toLower($term))
OPTIONAL MATCH (article)-[:MENTIONS]->(entity:Entity)
OPTIONAL MATCH (source:Source)-[:PUBLISHES]->(article)
RETURN article.title AS title,
       article.link AS link,
       article.summary AS summary,
       article.published AS published,
       article.topics AS topics,
       source.name AS source,
       collect(DISTINCT entity.name) AS entities
ORDER BY article.published DESC
LIMIT $limit
`

// SearchArticles matches the term against title, summary or any topic,
// newest first.
func (s *Store) SearchArticles(ctx context.Context, term string, limit int) ([]common.ArticleHit, error) {
	if limit <= 0 {
		limit = 10
	}

	hits := []common.ArticleHit{}
	err := s.read(ctx, searchArticlesCypher, map[string]any{
		"term":  term,
		"limit": limit,
	}, func(record *neo4j.Record) error {
		title, _ := record.Get("title")
		link, _ := record.Get("link")
		summary, _ := record.Get("summary")
		published, _ := record.Get("published")
		topics, _ := record.Get("topics")
		source, _ := record.Get("source")
		entities, _ := record.Get("entities")

		hits = append(hits, common.ArticleHit{
			Title:     asString(title),
			Link:      asString(link),
			Summary:   asString(summary),
			Published: asTime(published),
			Topics:    asStringSlice(topics),
			Source:    asString(source),
			Entities:  asStringSlice(entities),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// depthPattern maps a requested traversal depth onto the variable-length
// pattern. Depth is capped at 5 hops for cost control.
func depthPattern(depth int) string {
	switch depth {
	case 1:
		return "*1"
	case 2:
		return "*1..2"
	case 3:
		return "*1..3"
	default:
		return "*1..5"
	}
}

// Variable-length bounds cannot be parameterized, so the pattern is
// interpolated from the fixed table above.
const entityNetworkCypherFmt = `
MATCH path = (start:Entity {name: $entity_name})-[%s]-(connected)
WHERE connected:Entity OR connected:Article
RETURN path
LIMIT 100
`

// EntityNetwork collects the distinct nodes and relationship triples on
// paths radiating from the named entity.
func (s *Store) EntityNetwork(ctx context.Context, name string, depth int) (common.EntityNetwork, error) {
	network := common.EntityNetwork{
		Entity:        name,
		Nodes:         []common.NetworkNode{},
		Relationships: []common.NetworkRelationship{},
	}

	query := fmt.Sprintf(entityNetworkCypherFmt, depthPattern(depth))

	seenNodes := map[common.NetworkNode]struct{}{}
	seenRels := map[common.NetworkRelationship]struct{}{}

	err := s.read(ctx, query, map[string]any{
		"entity_name": name,
	}, func(record *neo4j.Record) error {
		value, ok := record.Get("path")
		if !ok {
			return nil
		}
		path, ok := value.(neo4j.Path)
		if !ok {
			return nil
		}

		nameByID := map[string]string{}
		for _, node := range path.Nodes {
			nodeName := nodeDisplayName(node)
			nameByID[node.GetElementId()] = nodeName

			label := "Unknown"
			if len(node.Labels) > 0 {
				label = node.Labels[0]
			}
			key := common.NetworkNode{Type: label, Name: nodeName}
			if _, seen := seenNodes[key]; !seen {
				seenNodes[key] = struct{}{}
				network.Nodes = append(network.Nodes, key)
			}
		}

		for _, rel := range path.Relationships {
			key := common.NetworkRelationship{
				From: nameOrUnknown(nameByID[rel.StartElementId]),
				To:   nameOrUnknown(nameByID[rel.EndElementId]),
				Type: rel.Type,
			}
			if _, seen := seenRels[key]; !seen {
				seenRels[key] = struct{}{}
				network.Relationships = append(network.Relationships, key)
			}
		}
		return nil
	})
	if err != nil {
		return common.EntityNetwork{}, err
	}
	return network, nil
}

func nodeDisplayName(node neo4j.Node) string {
	if name, ok := node.Props["name"].(string); ok && name != "" {
		return name
	}
	if title, ok := node.Props["title"].(string); ok && title != "" {
		return title
	}
	return "Unknown"
}

func nameOrUnknown(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}

const relatedArticlesCypher = `
MATCH (article:Article {title: $title})-[:MENTIONS]->(entity:Entity)
MATCH (other:Article)-[:MENTIONS]->(entity)
WHERE other.title <> $title
WITH other, count(DISTINCT entity) AS shared_entities
ORDER BY shared_entities DESC
LIMIT $limit
RETURN other.title AS title,
       other.link AS link,
       other.summary AS summary,
       shared_entities
`

// RelatedArticles ranks other articles by shared mentioned entities.
func (s *Store) RelatedArticles(ctx context.Context, title string, limit int) ([]common.RelatedArticle, error) {
	if limit <= 0 {
		limit = 5
	}

	related := []common.RelatedArticle{}
	err := s.read(ctx, relatedArticlesCypher, map[string]any{
		"title": title,
		"limit": limit,
	}, func(record *neo4j.Record) error {
		otherTitle, _ := record.Get("title")
		link, _ := record.Get("link")
		summary, _ := record.Get("summary")
		shared, _ := record.Get("shared_entities")

		related = append(related, common.RelatedArticle{
			Title:          asString(otherTitle),
			Link:           asString(link),
			Summary:        asString(summary),
			SharedEntities: asInt64(shared),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return related, nil
}
