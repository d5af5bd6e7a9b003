package feed

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"marketmind/pkg/common"
)

func TestFromItem(t *testing.T) {
	published := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	item := &gofeed.Item{
		Title:           "  The future of email marketing  ",
		Link:            "https://blog.example.com/email ",
		Description:     "Deliverability is changing.",
		PublishedParsed: &published,
	}

	article := FromItem(item, "Example Blog")

	if article.Title != "The future of email marketing" {
		t.Fatalf("Title = %q", article.Title)
	}
	if article.Link != "https://blog.example.com/email" {
		t.Fatalf("Link = %q", article.Link)
	}
	if article.Summary != "Deliverability is changing." {
		t.Fatalf("Summary = %q", article.Summary)
	}
	if !article.Published.Equal(published) {
		t.Fatalf("Published = %v", article.Published)
	}
	if article.Source != "Example Blog" {
		t.Fatalf("Source = %q", article.Source)
	}
	if article.SavedAt.IsZero() {
		t.Fatal("SavedAt not set")
	}
}

func TestFromItem_ContentFallbackAndUpdatedDate(t *testing.T) {
	updated := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	item := &gofeed.Item{
		Title:         "Untitled strategies",
		Link:          "https://blog.example.com/strategies",
		Content:       "Full body used when description is empty.",
		UpdatedParsed: &updated,
	}

	article := FromItem(item, "Example Blog")

	if article.Summary != "Full body used when description is empty." {
		t.Fatalf("Summary = %q", article.Summary)
	}
	if !article.Published.Equal(updated) {
		t.Fatalf("Published = %v, want updated date fallback", article.Published)
	}
}

func TestRelevant(t *testing.T) {
	fetcher := NewFetcher([]string{"marketing", "seo"}, 50)

	tests := []struct {
		name    string
		article common.Article
		want    bool
	}{
		{
			name:    "keyword in title",
			article: common.Article{Title: "Content Marketing in 2026"},
			want:    true,
		},
		{
			name:    "keyword in summary case-insensitive",
			article: common.Article{Title: "Rankings", Summary: "An SEO deep dive."},
			want:    true,
		},
		{
			name:    "no keyword",
			article: common.Article{Title: "Cooking with cast iron", Summary: "Recipes."},
			want:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := fetcher.Relevant(tc.article); got != tc.want {
				t.Fatalf("Relevant() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRelevant_EmptyKeywordListKeepsEverything(t *testing.T) {
	fetcher := NewFetcher(nil, 50)
	if !fetcher.Relevant(common.Article{Title: "Anything"}) {
		t.Fatal("Relevant() = false, want true with no keywords")
	}
}
