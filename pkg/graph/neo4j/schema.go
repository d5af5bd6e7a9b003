package neo4j

import (
	"context"
	"fmt"
)

// Schema declarations. All statements are idempotent (IF NOT EXISTS) so
// startup can run them unconditionally.
var schemaStatements = []string{
	"CREATE CONSTRAINT article_id IF NOT EXISTS FOR (a:Article) REQUIRE a.id IS UNIQUE",
	"CREATE CONSTRAINT source_name IF NOT EXISTS FOR (s:Source) REQUIRE s.name IS UNIQUE",
	"CREATE CONSTRAINT topic_name IF NOT EXISTS FOR (t:Topic) REQUIRE t.name IS UNIQUE",
	"CREATE CONSTRAINT entity_name IF NOT EXISTS FOR (e:Entity) REQUIRE e.name IS UNIQUE",
	"CREATE INDEX article_title IF NOT EXISTS FOR (a:Article) ON (a.title)",
	"CREATE INDEX article_published IF NOT EXISTS FOR (a:Article) ON (a.published)",
}

// InitSchema declares uniqueness constraints and indexes.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if err := s.write(ctx, statement, nil); err != nil {
			return fmt.Errorf("declare schema %q: %w", statement, err)
		}
	}
	return nil
}
