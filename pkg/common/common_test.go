package common

import (
	"testing"
	"time"
)

func TestArticleID_Deterministic(t *testing.T) {
	a := Article{Title: "A", Link: "https://example.com/post"}
	b := Article{Title: "B (re-ingested)", Link: "https://example.com/post"}

	if a.ID() != b.ID() {
		t.Fatalf("same link produced different ids: %q vs %q", a.ID(), b.ID())
	}
	if a.ID() == ArticleID("https://example.com/other") {
		t.Fatalf("different links produced the same id")
	}
}

func TestArticleValidate(t *testing.T) {
	tests := []struct {
		name    string
		article Article
		wantErr bool
	}{
		{
			name:    "complete",
			article: Article{Title: "T", Link: "https://x/1", Published: time.Now()},
		},
		{
			name:    "missing title",
			article: Article{Link: "https://x/1"},
			wantErr: true,
		},
		{
			name:    "whitespace link",
			article: Article{Title: "T", Link: "   "},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.article.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestBestSummary(t *testing.T) {
	a := Article{Summary: "raw"}
	if got := a.BestSummary(); got != "raw" {
		t.Fatalf("BestSummary() = %q, want raw summary", got)
	}
	a.SummaryProcessed = "processed"
	if got := a.BestSummary(); got != "processed" {
		t.Fatalf("BestSummary() = %q, want processed summary", got)
	}
}

func TestEmptyExtraction_WellFormed(t *testing.T) {
	e := EmptyExtraction()
	if e.Entities == nil || e.Relationships == nil || e.Topics == nil || e.Insights == nil || e.Trends == nil {
		t.Fatalf("EmptyExtraction() returned nil slices: %+v", e)
	}
	if len(e.Entities) != 0 {
		t.Fatalf("expected empty entities, got %d", len(e.Entities))
	}
}
