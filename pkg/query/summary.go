package query

import (
	"context"
	"fmt"
	"strings"

	"marketmind/pkg/ai"
	"marketmind/pkg/common"
	"marketmind/pkg/logger"
)

// Summary generation. Each call site embeds the evidence into a prompt and
// asks the chat model for 2-3 paragraphs. Empty evidence short-circuits to
// a templated line without touching the model; a model failure falls back
// to a templated count line.

func appendArticleTitles(b *strings.Builder, heading string, articles []common.ArticleHit) {
	b.WriteString(heading)
	for i, article := range articles {
		if i == 5 {
			break
		}
		fmt.Fprintf(b, "- %s\n", article.Title)
	}
}

func (e *Engine) complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if e.client == nil {
		return "", fmt.Errorf("no model client configured")
	}
	return e.client.GenerateCompletion(ctx, prompt, ai.WithSystemPrompts(systemPrompt))
}

func (e *Engine) entitySummary(
	ctx context.Context,
	entity string,
	articles []common.ArticleHit,
	network common.EntityNetwork,
) string {
	if len(articles) == 0 {
		return fmt.Sprintf("No information found about %s in the knowledge base.", entity)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Entity: %s\n\n", entity)
	appendArticleTitles(&b, "Recent articles:\n", articles)

	if len(network.Nodes) > 0 {
		names := []string{}
		for i, node := range network.Nodes {
			if i == 5 {
				break
			}
			names = append(names, node.Name)
		}
		fmt.Fprintf(&b, "\nRelated entities: %s\n", strings.Join(names, ", "))
	}

	prompt := fmt.Sprintf(ai.EntitySummaryPrompt, entity, entity, b.String())
	summary, err := e.complete(ctx, ai.EntitySummarySystemPrompt, prompt)
	if err != nil {
		logger.Warn("[Query] entity summary failed", "entity", entity, "err", err)
		return fmt.Sprintf("Found %d articles about %s in the knowledge base.", len(articles), entity)
	}
	return summary
}

func (e *Engine) topicSummary(
	ctx context.Context,
	topic string,
	articles []common.ArticleHit,
	trending []common.TrendingTopic,
) string {
	if len(articles) == 0 {
		return fmt.Sprintf("No information found about %s in the knowledge base.", topic)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n\n", topic)
	appendArticleTitles(&b, "Recent articles:\n", articles)

	if len(trending) > 0 {
		names := []string{}
		for i, t := range trending {
			if i == 5 {
				break
			}
			names = append(names, t.Topic)
		}
		fmt.Fprintf(&b, "\nTrending topics: %s\n", strings.Join(names, ", "))
	}

	prompt := fmt.Sprintf(ai.TopicSummaryPrompt, topic, topic, b.String())
	summary, err := e.complete(ctx, ai.TopicSummarySystemPrompt, prompt)
	if err != nil {
		logger.Warn("[Query] topic summary failed", "topic", topic, "err", err)
		return fmt.Sprintf("Found %d articles about %s in the knowledge base.", len(articles), topic)
	}
	return summary
}

func (e *Engine) trendingSummary(
	ctx context.Context,
	trending []common.TrendingTopic,
	articles []common.ArticleHit,
) string {
	if len(trending) == 0 {
		return "No trending topics found in the recent data."
	}

	var b strings.Builder
	b.WriteString("Top trending topics:\n")
	for i, topic := range trending {
		if i == 10 {
			break
		}
		fmt.Fprintf(&b, "- %s (mentioned %d times)\n", topic.Topic, topic.Frequency)
	}
	appendArticleTitles(&b, "\nRecent articles:\n", articles)

	prompt := fmt.Sprintf(ai.TrendingSummaryPrompt, b.String())
	summary, err := e.complete(ctx, ai.TrendSummarySystemPrompt, prompt)
	if err != nil {
		logger.Warn("[Query] trending summary failed", "err", err)
		return fmt.Sprintf("Found %d trending topics in the recent data.", len(trending))
	}
	return summary
}

func (e *Engine) relationshipSummary(
	ctx context.Context,
	entities []string,
	articles []common.ArticleHit,
	networks map[string]common.EntityNetwork,
) string {
	joined := joinEntities(entities)
	if len(articles) == 0 {
		return fmt.Sprintf("No information found about the relationship between %s.", joined)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Entities: %s\n\n", joined)
	appendArticleTitles(&b, "Related articles:\n", articles)

	b.WriteString("\nEntity networks:\n")
	for _, entity := range entities {
		network, ok := networks[entity]
		if !ok || len(network.Nodes) == 0 {
			continue
		}
		names := []string{}
		for i, node := range network.Nodes {
			if i == 3 {
				break
			}
			names = append(names, node.Name)
		}
		fmt.Fprintf(&b, "%s connects to: %s\n", entity, strings.Join(names, ", "))
	}

	prompt := fmt.Sprintf(ai.RelationshipSummaryPrompt, joined, b.String())
	summary, err := e.complete(ctx, ai.RelationSummarySystemPrompt, prompt)
	if err != nil {
		logger.Warn("[Query] relationship summary failed", "entities", joined, "err", err)
		return fmt.Sprintf("Found %d articles about the relationship between %s.", len(articles), joined)
	}
	return summary
}

func (e *Engine) generalSummary(
	ctx context.Context,
	query string,
	articles []common.ArticleHit,
) string {
	if len(articles) == 0 {
		return fmt.Sprintf("No information found about '%s' in the knowledge base.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	appendArticleTitles(&b, "Relevant articles:\n", articles)

	prompt := fmt.Sprintf(ai.GeneralSummaryPrompt, query, b.String())
	summary, err := e.complete(ctx, ai.GeneralSummarySystemPrompt, prompt)
	if err != nil {
		logger.Warn("[Query] general summary failed", "query", query, "err", err)
		return fmt.Sprintf("Found %d articles related to '%s' in the knowledge base.", len(articles), query)
	}
	return summary
}
