package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketmind/pkg/ai"

	"github.com/openai/openai-go/v3"
)

// GenerateEmbedding creates a vector embedding for the given input text
// using the configured embedding model.
//
// Empty input yields a zero vector of the configured width without touching
// the API. Vectors are truncated or zero-padded to that width so the vector
// store always sees a consistent dimensionality.
func (c *GraphOpenAIClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	client := c.EmbeddingClient
	if client == nil {
		return nil, ErrNotConfigured
	}

	dim := c.embeddingDim
	if dim <= 0 {
		dim = 1536
	}

	text := strings.TrimSpace(string(input))
	if text == "" {
		return make([]float32, dim), nil
	}

	rCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
		Model: c.embeddingModel,
	}

	start := time.Now()
	response, err := client.Embeddings.New(rCtx, body)
	if err != nil {
		return nil, err
	}
	duration := time.Since(start).Milliseconds()

	metrics := ai.ModelMetrics{
		InputTokens: int(response.Usage.PromptTokens),
		TotalTokens: int(response.Usage.TotalTokens),
		DurationMs:  duration,
	}
	c.modifyMetrics(metrics)

	if len(response.Data) != 1 {
		return nil, fmt.Errorf("unexpected embedding result size: got %d want 1", len(response.Data))
	}

	vec := make([]float32, 0, dim)
	for _, v := range response.Data[0].Embedding {
		if len(vec) >= dim {
			break
		}
		vec = append(vec, float32(v))
	}
	if len(vec) < dim {
		padded := make([]float32, dim)
		copy(padded, vec)
		vec = padded
	}
	return vec, nil
}
