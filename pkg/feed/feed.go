// Package feed fetches marketing RSS/Atom feeds and maps their entries onto
// articles for the ingestion pipeline.
package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"marketmind/pkg/common"
	"marketmind/pkg/logger"
)

// Fetcher retrieves feeds and keeps only entries relevant to the configured
// keyword list.
type Fetcher struct {
	parser     *gofeed.Parser
	keywords   []string
	maxPerFeed int
}

// NewFetcher returns a Fetcher. Entries matching none of the keywords are
// dropped; an empty keyword list keeps everything.
func NewFetcher(keywords []string, maxPerFeed int) *Fetcher {
	if maxPerFeed <= 0 {
		maxPerFeed = 50
	}
	return &Fetcher{
		parser:     gofeed.NewParser(),
		keywords:   keywords,
		maxPerFeed: maxPerFeed,
	}
}

// Fetch retrieves and parses one feed, returning its relevant articles,
// newest entries first as the feed orders them.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]common.Article, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = feedURL
	}

	count := min(len(feed.Items), f.maxPerFeed)
	articles := make([]common.Article, 0, count)
	for _, item := range feed.Items[:count] {
		article := FromItem(item, source)
		if err := article.Validate(); err != nil {
			continue
		}
		if !f.Relevant(article) {
			continue
		}
		articles = append(articles, article)
	}

	logger.Debug("[Feed] fetched", "url", feedURL, "items", len(feed.Items), "kept", len(articles))
	return articles, nil
}

// FromItem maps one feed entry onto an Article.
func FromItem(item *gofeed.Item, source string) common.Article {
	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	var published time.Time
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	return common.Article{
		Title:     strings.TrimSpace(item.Title),
		Link:      strings.TrimSpace(item.Link),
		Summary:   summary,
		Published: published,
		Source:    source,
		SavedAt:   time.Now(),
	}
}

// Relevant reports whether the article text mentions any configured keyword.
func (f *Fetcher) Relevant(article common.Article) bool {
	if len(f.keywords) == 0 {
		return true
	}
	text := strings.ToLower(article.Title + " " + article.Summary)
	for _, keyword := range f.keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
