package config

import (
	"strings"
	"time"

	"marketmind/internal/util"
)

// Config carries every setting the binaries need. It is built once at the
// process edge (FromEnv) and handed to constructors explicitly; no component
// reads ambient environment state.
type Config struct {
	Debug bool

	Graph  GraphConfig
	LLM    LLMConfig
	DB     DBConfig
	Redis  RedisConfig
	S3     S3Config
	Queue  QueueConfig
	Server ServerConfig
	Ingest IngestConfig
}

// GraphConfig points at the Neo4j instance holding the knowledge graph.
type GraphConfig struct {
	URI      string
	Username string
	Password string
}

// LLMConfig configures the language-model connector. BaseURL defaults to the
// DeepSeek OpenAI-compatible endpoint; Adapter selects "openai" or "ollama".
type LLMConfig struct {
	Adapter string

	BaseURL string
	APIKey  string

	ChatModel       string
	ExtractionModel string

	EmbeddingURL   string
	EmbeddingKey   string
	EmbeddingModel string
	EmbeddingDim   int

	Timeout time.Duration
}

// DBConfig points at the Postgres article store.
type DBConfig struct {
	URL           string
	MigrationsURL string
}

// RedisConfig points at the seen-link cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// S3Config points at the raw feed snapshot archive. An empty Bucket
// disables archiving.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

// QueueConfig points at RabbitMQ.
type QueueConfig struct {
	User     string
	Password string
	Host     string
	Port     string
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port         string
	MasterAPIKey string
	AuthURL      string
}

// IngestConfig configures the ingestion pipeline and its schedule.
type IngestConfig struct {
	Feeds      []string
	Keywords   []string
	MaxPerFeed int

	FetchWorkers   int
	ProcessWorkers int
	RunTimeout     time.Duration
	Schedule       string
}

// Default marketing feed list and relevance keywords, overridable via
// RSS_FEEDS / RSS_KEYWORDS.
var (
	defaultFeeds = []string{
		"https://blog.hubspot.com/marketing/rss.xml",
		"https://www.marketingprofs.com/rss/rss.asp?i=1",
		"https://moz.com/blog/rss",
		"https://socialmediaexaminer.com/feed",
		"https://unbounce.com/feed/",
	}
	defaultKeywords = []string{"marketing", "seo", "content", "strategy", "branding"}
)

// FromEnv assembles the full configuration from process environment
// variables. This is the only place environment state is read.
func FromEnv() Config {
	return Config{
		Debug: util.GetEnvBool("DEBUG", false),
		Graph: GraphConfig{
			URI:      util.GetEnvString("NEO4J_URI", "bolt://localhost:7687"),
			Username: util.GetEnvString("NEO4J_USERNAME", "neo4j"),
			Password: util.GetEnv("NEO4J_PASSWORD"),
		},
		LLM: LLMConfig{
			Adapter:         util.GetEnvString("AI_ADAPTER", "openai"),
			BaseURL:         util.GetEnvString("AI_CHAT_URL", "https://api.deepseek.com"),
			APIKey:          util.GetEnv("DEEPSEEK_API_KEY"),
			ChatModel:       util.GetEnvString("AI_CHAT_MODEL", "deepseek-chat"),
			ExtractionModel: util.GetEnvString("AI_EXTRACT_MODEL", "deepseek-chat"),
			EmbeddingURL:    util.GetEnvString("AI_EMBED_URL", "https://api.openai.com/v1"),
			EmbeddingKey:    util.GetEnv("OPENAI_API_KEY"),
			EmbeddingModel:  util.GetEnvString("AI_EMBED_MODEL", "text-embedding-3-small"),
			EmbeddingDim:    util.GetEnvInt("AI_EMBED_DIM", 1536),
			Timeout:         time.Duration(util.GetEnvInt("AI_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		DB: DBConfig{
			URL:           util.GetEnv("DATABASE_URL"),
			MigrationsURL: util.GetEnvString("MIGRATIONS_URL", "file://migrations"),
		},
		Redis: RedisConfig{
			Addr:     util.GetEnv("REDIS_ADDR"),
			Password: util.GetEnv("REDIS_PASSWORD"),
			DB:       util.GetEnvInt("REDIS_DB", 0),
		},
		S3: S3Config{
			Region:    util.GetEnv("AWS_REGION"),
			Endpoint:  util.GetEnv("AWS_ENDPOINT"),
			AccessKey: util.GetEnv("AWS_ACCESS_KEY"),
			SecretKey: util.GetEnv("AWS_SECRET_KEY"),
			Bucket:    util.GetEnv("AWS_BUCKET"),
		},
		Queue: QueueConfig{
			User:     util.GetEnv("RABBITMQ_USER"),
			Password: util.GetEnv("RABBITMQ_PASSWORD"),
			Host:     util.GetEnvString("RABBITMQ_HOST", "localhost"),
			Port:     util.GetEnvString("RABBITMQ_PORT", "5672"),
		},
		Server: ServerConfig{
			Port:         util.GetEnvString("PORT", "8080"),
			MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
			AuthURL:      util.GetEnv("AUTH_URL"),
		},
		Ingest: IngestConfig{
			Feeds:          splitList(util.GetEnv("RSS_FEEDS"), defaultFeeds),
			Keywords:       splitList(util.GetEnv("RSS_KEYWORDS"), defaultKeywords),
			MaxPerFeed:     util.GetEnvInt("RSS_MAX_PER_FEED", 50),
			FetchWorkers:   util.GetEnvInt("INGEST_FETCH_WORKERS", 5),
			ProcessWorkers: util.GetEnvInt("INGEST_PROCESS_WORKERS", 3),
			RunTimeout:     time.Duration(util.GetEnvInt("INGEST_TIMEOUT_MINUTES", 30)) * time.Minute,
			Schedule:       util.GetEnvString("INGEST_SCHEDULE", "@daily"),
		},
	}
}

func splitList(raw string, fallback []string) []string {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
