package vector

import (
	"strings"
	"testing"
	"time"

	"marketmind/pkg/common"
)

func TestEmbeddingTextPrefersProcessedSummary(t *testing.T) {
	article := common.Article{
		Title:            "Email Automation Trends",
		Link:             "https://example.com/email-trends",
		Summary:          "raw feed blurb",
		SummaryProcessed: "A condensed look at automation adoption.",
		Published:        time.Now(),
	}

	got := embeddingText(article)
	if !strings.HasPrefix(got, article.Title) {
		t.Fatalf("expected text to start with the title, got %q", got)
	}
	if !strings.Contains(got, article.SummaryProcessed) {
		t.Fatalf("expected processed summary in %q", got)
	}
	if strings.Contains(got, article.Summary) {
		t.Fatalf("raw summary should be replaced by the processed one, got %q", got)
	}
}

func TestEmbeddingTextTitleOnly(t *testing.T) {
	article := common.Article{Title: "Short Note", Link: "https://example.com/short"}
	if got := embeddingText(article); got != "Short Note" {
		t.Fatalf("expected bare title, got %q", got)
	}
}
