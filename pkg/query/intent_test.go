package query

import (
	"context"
	"errors"
	"testing"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		raw   string
		want  Intent
		valid bool
	}{
		{raw: "entity_search", want: IntentEntitySearch, valid: true},
		{raw: "  Topic_Search \n", want: IntentTopicSearch, valid: true},
		{raw: "TRENDING", want: IntentTrending, valid: true},
		{raw: "relationship_search", want: IntentRelationshipSearch, valid: true},
		{raw: "general_search", want: IntentGeneralSearch, valid: true},
		{raw: "something_else", want: IntentGeneralSearch, valid: false},
		{raw: "", want: IntentGeneralSearch, valid: false},
	}

	for _, tc := range tests {
		got, valid := ParseIntent(tc.raw)
		if got != tc.want || valid != tc.valid {
			t.Errorf("ParseIntent(%q) = %q, %v; want %q, %v", tc.raw, got, valid, tc.want, tc.valid)
		}
	}
}

func TestClassify_ModelDrivesIntent(t *testing.T) {
	client := &stubAIClient{completion: "entity_search"}
	classifier := NewClassifier(client)

	if got := classifier.Classify(context.Background(), "Tell me about HubSpot"); got != IntentEntitySearch {
		t.Fatalf("Classify() = %q, want entity_search", got)
	}
}

func TestClassify_FailureDefaultsToGeneralSearch(t *testing.T) {
	client := &stubAIClient{completionErr: errors.New("provider down")}
	classifier := NewClassifier(client)

	for range 3 {
		if got := classifier.Classify(context.Background(), "anything"); got != IntentGeneralSearch {
			t.Fatalf("Classify() = %q, want deterministic general_search", got)
		}
	}
}

func TestClassify_RogueValueMapsToGeneralSearch(t *testing.T) {
	client := &stubAIClient{completion: "existential_search"}
	classifier := NewClassifier(client)

	if got := classifier.Classify(context.Background(), "anything"); got != IntentGeneralSearch {
		t.Fatalf("Classify() = %q, want general_search", got)
	}
}

func TestClassify_NilClient(t *testing.T) {
	classifier := NewClassifier(nil)
	if got := classifier.Classify(context.Background(), "anything"); got != IntentGeneralSearch {
		t.Fatalf("Classify() = %q, want general_search", got)
	}
}
