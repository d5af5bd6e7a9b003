package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"codeberg.org/readeck/go-readability/v2"

	"marketmind/pkg/common"
	"marketmind/pkg/logger"
)

// FullTextFiller fetches an article's page and extracts the readable body,
// giving the extractor more text to work with than the feed snippet.
type FullTextFiller struct {
	client *http.Client
}

// NewFullTextFiller returns a filler using the given HTTP client, or
// http.DefaultClient when nil.
func NewFullTextFiller(client *http.Client) *FullTextFiller {
	if client == nil {
		client = http.DefaultClient
	}
	return &FullTextFiller{client: client}
}

// Fill replaces the article summary with the page's readable text when the
// page yields more content than the feed did. Failures leave the article
// unchanged; the feed snippet is always a usable fallback.
func (f *FullTextFiller) Fill(ctx context.Context, article common.Article) common.Article {
	text, err := f.extract(ctx, article.Link)
	if err != nil {
		logger.Debug("[Feed] full text extraction failed", "link", article.Link, "err", err)
		return article
	}
	if len(text) > len(article.Summary) {
		article.Summary = text
	}
	return article
}

func (f *FullTextFiller) extract(ctx context.Context, link string) (string, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse link: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}
	if contentType := resp.Header.Get("Content-Type"); !strings.Contains(contentType, "text/html") {
		return "", fmt.Errorf("not an html page: %s", contentType)
	}

	page, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var builder strings.Builder
	if err := page.RenderText(&builder); err != nil {
		return "", fmt.Errorf("render article text: %w", err)
	}
	return strings.TrimSpace(builder.String()), nil
}
