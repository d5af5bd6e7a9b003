package graph

import (
	"strings"

	"marketmind/pkg/common"
)

// KnownEntities are the companies, tools and platforms the keyword fallback
// and the query handlers recognize. Matching is case-insensitive substring;
// the canonical casing below is what gets stored and returned.
var KnownEntities = []string{
	"Google", "Facebook", "Meta", "Twitter", "LinkedIn", "Instagram", "TikTok",
	"YouTube", "HubSpot", "Mailchimp", "Salesforce", "Adobe", "Microsoft",
	"Apple", "Amazon", "WordPress", "Shopify", "WooCommerce", "Squarespace",
	"Wix", "Canva", "Figma", "Slack", "Zoom", "Trello", "Asana",
}

// TopicKeywords are the marketing topics the keyword fallback tags articles
// with.
var TopicKeywords = []string{
	"SEO", "content marketing", "social media", "email marketing", "PPC",
	"analytics", "conversion", "lead generation", "branding",
	"customer experience", "automation",
}

// MarketingTerms is the vocabulary topic search matches query text against
// before falling back to tokenization.
var MarketingTerms = []string{
	"A/B testing", "AB testing", "split testing", "conversion optimization",
	"email marketing", "social media", "content marketing", "SEO", "PPC",
	"lead generation", "customer acquisition", "branding", "analytics",
	"automation", "personalization", "retargeting", "influencer marketing",
	"video marketing", "mobile marketing", "local SEO", "voice search",
	"chatbots", "AI marketing", "machine learning", "data-driven",
	"customer experience", "user experience", "conversion rate",
	"click-through rate", "bounce rate", "engagement", "ROI",
}

var stopWords = map[string]struct{}{
	"what": {}, "can": {}, "you": {}, "tell": {}, "me": {}, "about": {},
	"and": {}, "its": {}, "in": {}, "the": {}, "a": {}, "an": {}, "is": {},
	"are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "must": {}, "shall": {},
}

// MatchEntity returns the first known entity whose name appears in the text,
// case-insensitively.
func MatchEntity(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, entity := range KnownEntities {
		if strings.Contains(lower, strings.ToLower(entity)) {
			return entity, true
		}
	}
	return "", false
}

// MatchEntities returns every known entity whose name appears in the text,
// in list order.
func MatchEntities(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, entity := range KnownEntities {
		if strings.Contains(lower, strings.ToLower(entity)) {
			found = append(found, entity)
		}
	}
	return found
}

// MatchTopics returns every topic keyword that appears in the text.
func MatchTopics(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, topic := range TopicKeywords {
		if strings.Contains(lower, strings.ToLower(topic)) {
			found = append(found, topic)
		}
	}
	return found
}

// KeyTerms extracts up to five search terms for topic queries. Known
// marketing terms win; when none match, the query is tokenized, stop words
// and tokens of two characters or fewer are dropped, and the first five
// tokens remain.
func KeyTerms(query string) []string {
	lower := strings.ToLower(query)

	found := []string{}
	for _, term := range MarketingTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			found = append(found, term)
		}
	}
	if len(found) > 0 {
		if len(found) > 5 {
			found = found[:5]
		}
		return found
	}

	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !isWordRune(r)
	})
	for _, word := range words {
		if _, stop := stopWords[word]; stop || len(word) <= 2 {
			continue
		}
		found = append(found, word)
		if len(found) == 5 {
			break
		}
	}
	return found
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// FallbackExtraction is the keyword path used when the model is unavailable
// or returns garbage: known entities become COMPANY entities, matched topic
// keywords become TOPIC entities and topics. No relationships, insights or
// trends are produced.
func FallbackExtraction(article common.Article) common.Extraction {
	text := article.Title + " " + article.BestSummary()

	extraction := common.EmptyExtraction()
	for _, name := range MatchEntities(text) {
		extraction.Entities = append(extraction.Entities, common.ExtractedEntity{
			Name: name,
			Type: common.EntityTypeCompany,
		})
	}
	for _, topic := range MatchTopics(text) {
		extraction.Topics = append(extraction.Topics, topic)
		extraction.Entities = append(extraction.Entities, common.ExtractedEntity{
			Name: topic,
			Type: common.EntityTypeTopic,
		})
	}
	return extraction
}
