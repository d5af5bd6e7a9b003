// Package store defines the article document store: the flat persistence
// layer that keeps every ingested article regardless of what the knowledge
// graph extracted from it.
package store

import (
	"context"
	"errors"
	"time"

	"marketmind/pkg/common"
)

// ErrNotFound is returned when no article matches a lookup.
var ErrNotFound = errors.New("article not found")

// ArticleStorage persists ingested articles keyed by link.
type ArticleStorage interface {
	// SaveArticle inserts the article, or updates its summary fields when
	// the link already exists. It reports whether the article was new.
	SaveArticle(ctx context.Context, article common.Article) (bool, error)

	// GetByLink fetches one article; ErrNotFound when absent.
	GetByLink(ctx context.Context, link string) (common.Article, error)

	// ListRecent returns articles saved since the cutoff, newest first.
	ListRecent(ctx context.Context, since time.Time, limit int) ([]common.Article, error)

	// CountBySource returns the number of stored articles per source.
	CountBySource(ctx context.Context) ([]common.SourceCount, error)
}
