package openai

import (
	"sync"
	"time"

	"marketmind/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// GraphOpenAIClient talks to OpenAI-compatible chat and embedding endpoints
// for knowledge graph extraction and query answering. The chat endpoint and
// the embedding endpoint can point at different providers, e.g. DeepSeek for
// chat and OpenAI for embeddings.
//
// A GraphOpenAIClient should be created using NewGraphOpenAIClient.
type GraphOpenAIClient struct {
	chatModel       string
	extractionModel string
	embeddingModel  string
	embeddingDim    int

	timeout time.Duration

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
}

// NewGraphOpenAIClientParams defines the configuration for creating a new
// GraphOpenAIClient.
//
// ChatModel is used for summaries and query classification.
// ExtractionModel is used for structured entity extraction.
// EmbeddingModel, EmbeddingURL and EmbeddingKey configure the embedding
// endpoint; EmbeddingDim is the expected vector width.
type NewGraphOpenAIClientParams struct {
	ChatModel       string
	ExtractionModel string
	EmbeddingModel  string
	EmbeddingDim    int

	ChatURL      string
	ChatKey      string
	EmbeddingURL string
	EmbeddingKey string

	Timeout time.Duration
}

// NewGraphOpenAIClient creates and returns a new GraphOpenAIClient configured
// with the provided parameters. It initializes separate OpenAI clients for
// chat/completion and embedding tasks.
func NewGraphOpenAIClient(
	params NewGraphOpenAIClientParams,
) *GraphOpenAIClient {
	chatClient := newOpenaiClient(params.ChatURL, params.ChatKey)
	embedClient := newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey)

	timeout := params.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}

	return &GraphOpenAIClient{
		chatModel:       params.ChatModel,
		extractionModel: params.ExtractionModel,
		embeddingModel:  params.EmbeddingModel,
		embeddingDim:    params.EmbeddingDim,

		timeout: timeout,

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		ChatClient:      chatClient,
		EmbeddingClient: embedClient,
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
