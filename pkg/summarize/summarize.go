// Package summarize condenses raw article text before graph extraction and
// storage.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"marketmind/pkg/ai"
	"marketmind/pkg/common"
	"marketmind/pkg/logger"
)

// maxInputTokens bounds the article body embedded in the prompt so a long
// scraped page cannot blow the model's context window.
const maxInputTokens = 6000

// Summarizer produces SummaryProcessed for articles. A model failure leaves
// the raw feed summary in place; summarization is best-effort.
type Summarizer struct {
	client ai.Client
}

// NewSummarizer returns a Summarizer over the given model client.
func NewSummarizer(client ai.Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize fills article.SummaryProcessed from the best available text.
// The input article is returned with the field set; on failure it is
// returned unchanged.
func (s *Summarizer) Summarize(ctx context.Context, article common.Article) common.Article {
	if s.client == nil {
		return article
	}

	body := article.BestSummary()
	if strings.TrimSpace(body) == "" {
		return article
	}
	body = TruncateTokens(body, maxInputTokens)

	prompt := fmt.Sprintf(ai.CondensePrompt, article.Title, body)
	summary, err := s.client.GenerateCompletion(
		ctx,
		prompt,
		ai.WithSystemPrompts(ai.CondenseSystemPrompt),
	)
	if err != nil {
		logger.Warn("[Summarize] model summary failed, keeping feed summary",
			"title", article.Title, "err", err)
		return article
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return article
	}
	article.SummaryProcessed = summary
	return article
}

// TruncateTokens cuts text to at most limit tokens. When the token encoding
// is unavailable (it is fetched lazily and may be absent offline) a
// conservative rune estimate of four characters per token is used instead.
func TruncateTokens(text string, limit int) string {
	if limit <= 0 {
		return ""
	}

	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return truncateRunes(text, limit*4)
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text
	}
	return enc.Decode(tokens[:limit])
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
