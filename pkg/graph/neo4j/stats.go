package neo4j

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"marketmind/pkg/common"
)

const trendingTopicsCypher = `
MATCH (article:Article)
WHERE article.published >= datetime() - duration({days: $days})
UNWIND article.topics AS topic
RETURN topic, count(*) AS frequency
ORDER BY frequency DESC
LIMIT 20
`

// TrendingTopics ranks topics by mention frequency among articles published
// in the last days.
func (s *Store) TrendingTopics(ctx context.Context, days int) ([]common.TrendingTopic, error) {
	if days <= 0 {
		days = 30
	}

	trending := []common.TrendingTopic{}
	err := s.read(ctx, trendingTopicsCypher, map[string]any{
		"days": days,
	}, func(record *neo4j.Record) error {
		topic, _ := record.Get("topic")
		frequency, _ := record.Get("frequency")
		trending = append(trending, common.TrendingTopic{
			Topic:     asString(topic),
			Frequency: asInt64(frequency),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trending, nil
}

const nodeCountsCypher = `
MATCH (n)
RETURN labels(n)[0] AS type, count(*) AS count
`

const relationshipCountsCypher = `
MATCH ()-[r]->()
RETURN type(r) AS type, count(*) AS count
`

const articlesBySourceCypher = `
MATCH (source:Source)-[:PUBLISHES]->(article:Article)
RETURN source.name AS source, count(*) AS count
ORDER BY count DESC
`

// Stats aggregates the whole graph: node counts by label (every label,
// Source included, so insight totals read real values), relationship counts
// by type and article counts by source.
func (s *Store) Stats(ctx context.Context) (common.GraphStats, error) {
	stats := common.GraphStats{
		Nodes:            map[string]int64{},
		Relationships:    map[string]int64{},
		ArticlesBySource: []common.SourceCount{},
	}

	err := s.read(ctx, nodeCountsCypher, nil, func(record *neo4j.Record) error {
		label, _ := record.Get("type")
		count, _ := record.Get("count")
		if name := asString(label); name != "" {
			stats.Nodes[name] = asInt64(count)
		}
		return nil
	})
	if err != nil {
		return common.GraphStats{}, err
	}

	err = s.read(ctx, relationshipCountsCypher, nil, func(record *neo4j.Record) error {
		relType, _ := record.Get("type")
		count, _ := record.Get("count")
		if name := asString(relType); name != "" {
			stats.Relationships[name] = asInt64(count)
		}
		return nil
	})
	if err != nil {
		return common.GraphStats{}, err
	}

	err = s.read(ctx, articlesBySourceCypher, nil, func(record *neo4j.Record) error {
		source, _ := record.Get("source")
		count, _ := record.Get("count")
		stats.ArticlesBySource = append(stats.ArticlesBySource, common.SourceCount{
			Source: asString(source),
			Count:  asInt64(count),
		})
		return nil
	})
	if err != nil {
		return common.GraphStats{}, err
	}

	return stats, nil
}
