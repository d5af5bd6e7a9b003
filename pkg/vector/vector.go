// Package vector stores article embeddings in Postgres via pgvector and
// serves semantic similarity search over them.
package vector

import (
	"context"
	"fmt"
	"strings"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"marketmind/pkg/ai"
	"marketmind/pkg/common"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgxv5.Row
}

// DocumentStore indexes one embedded document per article.
type DocumentStore struct {
	conn   pgxIConn
	client ai.Client
}

func NewDocumentStore(conn pgxIConn, client ai.Client) *DocumentStore {
	return &DocumentStore{conn: conn, client: client}
}

// Match is a similarity search hit with cosine similarity in [0, 1].
type Match struct {
	Link       string  `json:"link"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

const upsertDocumentSQL = `
INSERT INTO documents (article_link, content, embedding)
VALUES ($1, $2, $3)
ON CONFLICT (article_link) DO UPDATE SET
    content = EXCLUDED.content,
    embedding = EXCLUDED.embedding
`

// IndexArticle embeds the article's title and summary and upserts the
// resulting document keyed by article link.
func (s *DocumentStore) IndexArticle(ctx context.Context, article common.Article) error {
	if s.client == nil {
		return fmt.Errorf("index article: no embedding client configured")
	}
	if err := article.Validate(); err != nil {
		return err
	}

	content := embeddingText(article)
	embedding, err := s.client.GenerateEmbedding(ctx, []byte(content))
	if err != nil {
		return fmt.Errorf("embed article %s: %w", article.Link, err)
	}

	_, err = s.conn.Exec(ctx, upsertDocumentSQL, article.Link, content, pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("store document %s: %w", article.Link, err)
	}
	return nil
}

const searchDocumentsSQL = `
SELECT article_link, content, 1 - (embedding <=> $1) AS similarity
FROM documents
ORDER BY embedding <=> $1
LIMIT $2
`

// Search embeds the query and returns the closest documents by cosine
// distance, best first.
func (s *DocumentStore) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	if s.client == nil {
		return nil, fmt.Errorf("search documents: no embedding client configured")
	}
	if limit <= 0 {
		limit = 5
	}

	embedding, err := s.client.GenerateEmbedding(ctx, []byte(query))
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := s.conn.Query(ctx, searchDocumentsSQL, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	matches := make([]Match, 0, limit)
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Link, &m.Content, &m.Similarity); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func embeddingText(article common.Article) string {
	var b strings.Builder
	b.WriteString(article.Title)
	if summary := article.BestSummary(); summary != "" {
		b.WriteString("\n\n")
		b.WriteString(summary)
	}
	return b.String()
}
