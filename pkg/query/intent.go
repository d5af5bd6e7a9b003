package query

import (
	"context"
	"fmt"
	"strings"

	"marketmind/pkg/ai"
	"marketmind/pkg/logger"
)

// Intent is the closed set of query classifications. Anything the
// classifier returns outside this set maps to IntentGeneralSearch.
type Intent string

const (
	IntentEntitySearch       Intent = "entity_search"
	IntentTopicSearch        Intent = "topic_search"
	IntentTrending           Intent = "trending"
	IntentRelationshipSearch Intent = "relationship_search"
	IntentGeneralSearch      Intent = "general_search"
)

// ParseIntent validates a raw classification string against the closed
// intent set.
func ParseIntent(raw string) (Intent, bool) {
	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentEntitySearch:
		return IntentEntitySearch, true
	case IntentTopicSearch:
		return IntentTopicSearch, true
	case IntentTrending:
		return IntentTrending, true
	case IntentRelationshipSearch:
		return IntentRelationshipSearch, true
	case IntentGeneralSearch:
		return IntentGeneralSearch, true
	}
	return IntentGeneralSearch, false
}

// Classifier routes free-text questions to an intent via the model, with a
// deterministic general_search fallback on any failure or rogue answer.
type Classifier struct {
	client ai.Client
}

// NewClassifier returns a Classifier over the given model client. A nil
// client always classifies to general_search.
func NewClassifier(client ai.Client) *Classifier {
	return &Classifier{client: client}
}

// Classify returns the intent for the query. It never fails.
func (c *Classifier) Classify(ctx context.Context, query string) Intent {
	if c.client == nil {
		return IntentGeneralSearch
	}

	prompt := fmt.Sprintf(ai.ClassifyPrompt, query)
	response, err := c.client.GenerateCompletion(
		ctx,
		prompt,
		ai.WithSystemPrompts(ai.ClassifySystemPrompt),
		ai.WithTemperature(0),
	)
	if err != nil {
		logger.Warn("[Query] classification failed, defaulting to general search", "err", err)
		return IntentGeneralSearch
	}

	intent, ok := ParseIntent(response)
	if !ok {
		logger.Warn("[Query] unrecognized classification, defaulting to general search",
			"response", strings.TrimSpace(response))
	}
	return intent
}
