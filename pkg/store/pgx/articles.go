// Package pgx implements the article store on PostgreSQL.
package pgx

import (
	"context"
	"errors"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"marketmind/pkg/common"
	"marketmind/pkg/store"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

// ArticleDBStorage implements store.ArticleStorage on a pgx connection or
// pool.
type ArticleDBStorage struct {
	conn pgxIConn
}

var _ store.ArticleStorage = (*ArticleDBStorage)(nil)

// NewArticleDBStorage creates an ArticleDBStorage using an existing
// database connection or pool.
func NewArticleDBStorage(conn pgxIConn) *ArticleDBStorage {
	return &ArticleDBStorage{conn: conn}
}

const saveArticleSQL = `
INSERT INTO articles (link, title, summary, summary_processed, published, source, saved_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (link) DO UPDATE SET
    title = EXCLUDED.title,
    summary = EXCLUDED.summary,
    summary_processed = EXCLUDED.summary_processed,
    published = EXCLUDED.published,
    source = EXCLUDED.source
RETURNING (xmax = 0) AS inserted
`

// SaveArticle upserts the article keyed by link and reports whether a new
// row was created.
func (s *ArticleDBStorage) SaveArticle(ctx context.Context, article common.Article) (bool, error) {
	if err := article.Validate(); err != nil {
		return false, err
	}

	savedAt := article.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	var inserted bool
	err := s.conn.QueryRow(ctx, saveArticleSQL,
		article.Link,
		article.Title,
		article.Summary,
		article.SummaryProcessed,
		article.Published,
		article.Source,
		savedAt,
	).Scan(&inserted)
	if err != nil {
		return false, err
	}
	return inserted, nil
}

const getByLinkSQL = `
SELECT link, title, summary, summary_processed, published, source, saved_at
FROM articles
WHERE link = $1
`

// GetByLink fetches one article by link.
func (s *ArticleDBStorage) GetByLink(ctx context.Context, link string) (common.Article, error) {
	var article common.Article
	err := s.conn.QueryRow(ctx, getByLinkSQL, link).Scan(
		&article.Link,
		&article.Title,
		&article.Summary,
		&article.SummaryProcessed,
		&article.Published,
		&article.Source,
		&article.SavedAt,
	)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return common.Article{}, store.ErrNotFound
	}
	if err != nil {
		return common.Article{}, err
	}
	return article, nil
}

const listRecentSQL = `
SELECT link, title, summary, summary_processed, published, source, saved_at
FROM articles
WHERE saved_at >= $1
ORDER BY published DESC
LIMIT $2
`

// ListRecent returns articles saved since the cutoff, newest first.
func (s *ArticleDBStorage) ListRecent(ctx context.Context, since time.Time, limit int) ([]common.Article, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.conn.Query(ctx, listRecentSQL, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []common.Article{}
	for rows.Next() {
		var article common.Article
		if err := rows.Scan(
			&article.Link,
			&article.Title,
			&article.Summary,
			&article.SummaryProcessed,
			&article.Published,
			&article.Source,
			&article.SavedAt,
		); err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

const countBySourceSQL = `
SELECT source, count(*)
FROM articles
GROUP BY source
ORDER BY count(*) DESC
`

// CountBySource returns stored article counts per source.
func (s *ArticleDBStorage) CountBySource(ctx context.Context) ([]common.SourceCount, error) {
	rows, err := s.conn.Query(ctx, countBySourceSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []common.SourceCount{}
	for rows.Next() {
		var count common.SourceCount
		if err := rows.Scan(&count.Source, &count.Count); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}
