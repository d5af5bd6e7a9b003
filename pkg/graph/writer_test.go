package graph

import (
	"context"
	"errors"
	"testing"

	"marketmind/pkg/common"
)

// stubStore records merges and can be told to fail specific entity names.
type stubStore struct {
	failEntities map[string]bool
	failRels     map[string]bool

	articles      []common.Article
	sources       []string
	entities      []common.ExtractedEntity
	relationships []common.ExtractedRelationship
}

func newStubStore() *stubStore {
	return &stubStore{
		failEntities: map[string]bool{},
		failRels:     map[string]bool{},
	}
}

func (s *stubStore) InitSchema(ctx context.Context) error { return nil }

func (s *stubStore) MergeArticle(ctx context.Context, article common.Article, extraction common.Extraction) (string, error) {
	s.articles = append(s.articles, article)
	return article.ID(), nil
}

func (s *stubStore) MergeSource(ctx context.Context, source string, articleID string) error {
	s.sources = append(s.sources, source)
	return nil
}

func (s *stubStore) MergeEntity(ctx context.Context, articleID string, entity common.ExtractedEntity) error {
	if s.failEntities[entity.Name] {
		return errors.New("merge refused")
	}
	s.entities = append(s.entities, entity)
	return nil
}

func (s *stubStore) MergeRelationship(ctx context.Context, articleID string, rel common.ExtractedRelationship) error {
	if s.failRels[rel.From] {
		return errors.New("merge refused")
	}
	s.relationships = append(s.relationships, rel)
	return nil
}

func (s *stubStore) SearchArticles(ctx context.Context, term string, limit int) ([]common.ArticleHit, error) {
	return nil, nil
}

func (s *stubStore) EntityNetwork(ctx context.Context, name string, depth int) (common.EntityNetwork, error) {
	return common.EntityNetwork{Entity: name}, nil
}

func (s *stubStore) TrendingTopics(ctx context.Context, days int) ([]common.TrendingTopic, error) {
	return nil, nil
}

func (s *stubStore) RelatedArticles(ctx context.Context, title string, limit int) ([]common.RelatedArticle, error) {
	return nil, nil
}

func (s *stubStore) Stats(ctx context.Context) (common.GraphStats, error) {
	return common.GraphStats{}, nil
}

func (s *stubStore) Close(ctx context.Context) error { return nil }

func TestWriterStore_PartialEntityFailureContinues(t *testing.T) {
	store := newStubStore()
	store.failEntities["Mailchimp"] = true

	writer := NewWriter(store, nil)
	extraction := common.Extraction{
		Entities: []common.ExtractedEntity{
			{Name: "HubSpot", Type: common.EntityTypeCompany},
			{Name: "Mailchimp", Type: common.EntityTypeCompany},
			{Name: "Salesforce", Type: common.EntityTypeCompany},
		},
	}

	err := writer.Store(context.Background(), common.Article{
		Title: "CRM roundup", Link: "https://x/4", Source: "MarketingProfs",
	}, &extraction)
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	if len(store.entities) != 2 {
		t.Fatalf("stored %d entities, want 2 (Mailchimp skipped)", len(store.entities))
	}
	if store.entities[0].Name != "HubSpot" || store.entities[1].Name != "Salesforce" {
		t.Fatalf("stored entities = %v", store.entities)
	}
}

func TestWriterStore_DefaultsSourceToUnknown(t *testing.T) {
	store := newStubStore()
	writer := NewWriter(store, nil)

	extraction := common.EmptyExtraction()
	err := writer.Store(context.Background(), common.Article{
		Title: "Untitled feed", Link: "https://x/5",
	}, &extraction)
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if len(store.sources) != 1 || store.sources[0] != "Unknown" {
		t.Fatalf("stored sources = %v, want [Unknown]", store.sources)
	}
}

func TestWriterStore_RunsExtractorWhenNil(t *testing.T) {
	store := newStubStore()
	writer := NewWriter(store, NewExtractor(nil))

	err := writer.Store(context.Background(), common.Article{
		Title:   "Google Analytics 4 Guide",
		Link:    "https://x/1",
		Summary: "Covers the HubSpot integration.",
		Source:  "Moz",
	}, nil)
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	found := map[string]bool{}
	for _, e := range store.entities {
		found[e.Name] = true
	}
	if !found["Google"] || !found["HubSpot"] {
		t.Fatalf("stored entities = %v, want Google and HubSpot via fallback extraction", store.entities)
	}
}

func TestWriterStore_RejectsInvalidArticle(t *testing.T) {
	writer := NewWriter(newStubStore(), nil)
	extraction := common.EmptyExtraction()

	err := writer.Store(context.Background(), common.Article{Link: "https://x/6"}, &extraction)
	if !errors.Is(err, common.ErrInvalidArticle) {
		t.Fatalf("Store() error = %v, want ErrInvalidArticle", err)
	}
}

func TestWriterStore_SkipsUnnamedItems(t *testing.T) {
	store := newStubStore()
	writer := NewWriter(store, nil)

	extraction := common.Extraction{
		Entities: []common.ExtractedEntity{
			{Name: "", Type: common.EntityTypeConcept},
			{Name: "Canva", Type: common.EntityTypeTool},
		},
		Relationships: []common.ExtractedRelationship{
			{From: "", To: "Canva", Relationship: "uses"},
			{From: "Canva", To: "Figma", Relationship: "competes_with"},
		},
	}

	err := writer.Store(context.Background(), common.Article{
		Title: "Design tools", Link: "https://x/7", Source: "Unbounce",
	}, &extraction)
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	if len(store.entities) != 1 || store.entities[0].Name != "Canva" {
		t.Fatalf("stored entities = %v, want Canva only", store.entities)
	}
	if len(store.relationships) != 1 || store.relationships[0].From != "Canva" {
		t.Fatalf("stored relationships = %v, want Canva->Figma only", store.relationships)
	}
}
