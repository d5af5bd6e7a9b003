package graph

import (
	"testing"

	"marketmind/pkg/common"
)

func TestMatchEntity(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{name: "exact name", text: "Tell me about HubSpot", want: "HubSpot", found: true},
		{name: "lowercase query", text: "what is hubspot good for", want: "HubSpot", found: true},
		{name: "first match wins", text: "Google versus HubSpot", want: "Google", found: true},
		{name: "substring of product name", text: "Google Analytics setup", want: "Google", found: true},
		{name: "no known entity", text: "improving newsletter open rates", want: "", found: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := MatchEntity(tc.text)
			if found != tc.found || got != tc.want {
				t.Fatalf("MatchEntity(%q) = %q, %v; want %q, %v", tc.text, got, found, tc.want, tc.found)
			}
		})
	}
}

func TestMatchEntities(t *testing.T) {
	got := MatchEntities("How does HubSpot compare to Mailchimp and Salesforce?")
	want := []string{"HubSpot", "Mailchimp", "Salesforce"}
	if len(got) != len(want) {
		t.Fatalf("MatchEntities() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MatchEntities()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKeyTerms_MarketingVocabulary(t *testing.T) {
	got := KeyTerms("What are best practices for email marketing and SEO?")

	hasEmail := false
	hasSEO := false
	for _, term := range got {
		if term == "email marketing" {
			hasEmail = true
		}
		if term == "SEO" {
			hasSEO = true
		}
	}
	if !hasEmail || !hasSEO {
		t.Fatalf("KeyTerms() = %v, want email marketing and SEO present", got)
	}
}

func TestKeyTerms_TokenFallback(t *testing.T) {
	got := KeyTerms("What can you tell me about growing an audience with newsletters quickly and cheaply today?")

	if len(got) == 0 || len(got) > 5 {
		t.Fatalf("KeyTerms() returned %d terms, want 1..5: %v", len(got), got)
	}
	for _, term := range got {
		if _, stop := stopWords[term]; stop {
			t.Fatalf("KeyTerms() kept stop word %q: %v", term, got)
		}
		if len(term) <= 2 {
			t.Fatalf("KeyTerms() kept short token %q: %v", term, got)
		}
	}
	if got[0] != "growing" {
		t.Fatalf("KeyTerms()[0] = %q, want %q", got[0], "growing")
	}
}

func TestFallbackExtraction(t *testing.T) {
	article := common.Article{
		Title:   "Google Analytics 4 Guide",
		Link:    "https://x/1",
		Summary: "A walkthrough of the new reports and the HubSpot integration.",
	}

	extraction := FallbackExtraction(article)

	wantCompany := func(name string) {
		t.Helper()
		for _, e := range extraction.Entities {
			if e.Name == name && e.Type == common.EntityTypeCompany {
				return
			}
		}
		t.Fatalf("FallbackExtraction() entities = %v, want %s as COMPANY", extraction.Entities, name)
	}
	wantCompany("Google")
	wantCompany("HubSpot")

	hasAnalytics := false
	for _, topic := range extraction.Topics {
		if topic == "analytics" {
			hasAnalytics = true
		}
	}
	if !hasAnalytics {
		t.Fatalf("FallbackExtraction() topics = %v, want analytics", extraction.Topics)
	}

	if len(extraction.Relationships) != 0 {
		t.Fatalf("FallbackExtraction() relationships = %v, want none", extraction.Relationships)
	}
	if extraction.Insights == nil || extraction.Trends == nil {
		t.Fatal("FallbackExtraction() must return non-nil slices")
	}
}
