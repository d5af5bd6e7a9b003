package common

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// Entity type tags assigned during extraction. The set is closed; readers
// must tolerate an empty type because extraction is best-effort.
const (
	EntityTypeCompany  = "COMPANY"
	EntityTypeTool     = "TOOL"
	EntityTypePlatform = "PLATFORM"
	EntityTypeConcept  = "CONCEPT"
	EntityTypePerson   = "PERSON"
	EntityTypeTopic    = "TOPIC"
)

// Article is a single ingested feed entry. Title, Link and Summary come from
// the feed; SummaryProcessed is filled by the summarizer before storage.
type Article struct {
	Title            string    `json:"title"`
	Link             string    `json:"link"`
	Summary          string    `json:"summary"`
	SummaryProcessed string    `json:"summary_processed,omitempty"`
	Published        time.Time `json:"published"`
	Source           string    `json:"source"`
	SavedAt          time.Time `json:"saved_at,omitempty"`
}

// ErrInvalidArticle is returned by Validate when required fields are missing.
var ErrInvalidArticle = errors.New("article is missing required fields")

// Validate checks the fields every downstream consumer relies on.
// It is called once at the ingestion boundary.
func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Link) == "" {
		return ErrInvalidArticle
	}
	return nil
}

// ID returns the deterministic article identity derived from the link.
// Two ingestions of the same link always map to the same graph node.
func (a *Article) ID() string {
	return ArticleID(a.Link)
}

// BestSummary returns the processed summary when available, falling back to
// the raw feed summary.
func (a *Article) BestSummary() string {
	if a.SummaryProcessed != "" {
		return a.SummaryProcessed
	}
	return a.Summary
}

// ArticleID derives the graph identity for an article link.
func ArticleID(link string) string {
	hash := sha256.Sum256([]byte(link))
	return "article_" + hex.EncodeToString(hash[:])[:16]
}

// ExtractedEntity is a named thing pulled out of article text.
type ExtractedEntity struct {
	Name string `json:"name" jsonschema_description:"Name of the entity as it appears in the text"`
	Type string `json:"type" jsonschema_description:"One of COMPANY, TOOL, PLATFORM, CONCEPT, PERSON, TOPIC"`
}

// ExtractedRelationship is a directional assertion between two entities.
type ExtractedRelationship struct {
	From         string `json:"from" jsonschema_description:"Name of the source entity"`
	To           string `json:"to" jsonschema_description:"Name of the target entity"`
	Relationship string `json:"relationship" jsonschema_description:"Short relationship type label"`
	Description  string `json:"description" jsonschema_description:"One sentence describing the relationship"`
}

// Extraction is the structured result of analyzing one article.
// All slices are non-nil after Normalize, even when empty.
type Extraction struct {
	Entities      []ExtractedEntity       `json:"entities" jsonschema_description:"Entities identified in the article"`
	Relationships []ExtractedRelationship `json:"relationships" jsonschema_description:"Relationships between the identified entities"`
	Topics        []string                `json:"topics" jsonschema_description:"Topics and categories covered by the article"`
	Insights      []string                `json:"insights" jsonschema_description:"Key insights stated by the article"`
	Trends        []string                `json:"trends" jsonschema_description:"Trends the article identifies"`
}

// Normalize replaces nil slices with empty ones so callers can range and
// serialize without nil checks.
func (e *Extraction) Normalize() {
	if e.Entities == nil {
		e.Entities = []ExtractedEntity{}
	}
	if e.Relationships == nil {
		e.Relationships = []ExtractedRelationship{}
	}
	if e.Topics == nil {
		e.Topics = []string{}
	}
	if e.Insights == nil {
		e.Insights = []string{}
	}
	if e.Trends == nil {
		e.Trends = []string{}
	}
}

// EmptyExtraction returns the well-formed zero result used when every
// extraction strategy has failed.
func EmptyExtraction() Extraction {
	e := Extraction{}
	e.Normalize()
	return e
}

// ArticleHit is one row of a keyword search over the graph: the matching
// article plus its source and the entities it mentions.
type ArticleHit struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Summary   string    `json:"summary"`
	Published time.Time `json:"published"`
	Topics    []string  `json:"topics"`
	Source    string    `json:"source"`
	Entities  []string  `json:"entities"`
}

// RelatedArticle is an article ranked by the number of entities it shares
// with a reference article.
type RelatedArticle struct {
	Title          string `json:"title"`
	Link           string `json:"link"`
	Summary        string `json:"summary"`
	SharedEntities int64  `json:"shared_entities"`
}

// NetworkNode is one node of an entity network subgraph.
type NetworkNode struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// NetworkRelationship is one traversed edge of an entity network subgraph.
type NetworkRelationship struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// EntityNetwork is the bounded subgraph reachable from a named entity.
type EntityNetwork struct {
	Entity        string                `json:"entity"`
	Nodes         []NetworkNode         `json:"nodes"`
	Relationships []NetworkRelationship `json:"relationships"`
}

// TrendingTopic is a topic ranked by mention frequency in a recent window.
type TrendingTopic struct {
	Topic     string `json:"topic"`
	Frequency int64  `json:"frequency"`
}

// SourceCount is the number of articles published by one source.
type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// GraphStats aggregates the knowledge graph: node counts by label,
// relationship counts by type and article counts by source.
type GraphStats struct {
	Nodes            map[string]int64 `json:"nodes"`
	Relationships    map[string]int64 `json:"relationships"`
	ArticlesBySource []SourceCount    `json:"articles_by_source"`
}
