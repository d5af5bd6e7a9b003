package graph

import (
	"context"
	"fmt"

	"marketmind/pkg/ai"
	"marketmind/pkg/common"
	"marketmind/pkg/logger"
)

// Extractor turns an article into its structured knowledge graph payload.
// The model path is tried first with a strict JSON schema; anything short of
// a parseable result drops to the keyword fallback, so Extract never fails.
type Extractor struct {
	client ai.Client
}

// NewExtractor returns an Extractor backed by the given model client.
// A nil client skips the model entirely and always takes the fallback path.
func NewExtractor(client ai.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract produces entities, relationships, topics, insights and trends for
// the article. All slices in the result are non-nil.
func (e *Extractor) Extract(ctx context.Context, article common.Article) common.Extraction {
	if e.client == nil {
		return FallbackExtraction(article)
	}

	text := fmt.Sprintf("Title: %s\nSummary: %s", article.Title, article.BestSummary())
	prompt := fmt.Sprintf(ai.ExtractionPrompt, text)

	var extraction common.Extraction
	err := e.client.GenerateCompletionWithFormat(
		ctx,
		"article_extraction",
		"Entities, relationships, topics, insights and trends found in a marketing article",
		prompt,
		&extraction,
		ai.WithSystemPrompts(ai.ExtractionSystemPrompt),
	)
	if err != nil {
		logger.Warn("[Extract] model extraction failed, using keyword fallback",
			"title", article.Title, "err", err)
		return FallbackExtraction(article)
	}

	extraction.Normalize()
	return extraction
}
