package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"marketmind/internal/config"
	"marketmind/internal/queue"
	mid "marketmind/internal/server/middleware"
	"marketmind/internal/storage"
	"marketmind/pkg/ai"
	oai "marketmind/pkg/ai/ollama"
	gai "marketmind/pkg/ai/openai"
	graphdb "marketmind/pkg/graph/neo4j"
	"marketmind/pkg/logger"
	"marketmind/pkg/query"
	storepgx "marketmind/pkg/store/pgx"
	"marketmind/pkg/vector"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

// NewAIClient builds the chat/embedding client for the configured adapter.
func NewAIClient(cfg config.LLMConfig) (ai.Client, error) {
	switch cfg.Adapter {
	case "ollama":
		return oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			ChatModel:       cfg.ChatModel,
			ExtractionModel: cfg.ExtractionModel,
			EmbeddingModel:  cfg.EmbeddingModel,
			EmbeddingDim:    cfg.EmbeddingDim,
			BaseURL:         cfg.BaseURL,
			ApiKey:          cfg.APIKey,
			Timeout:         cfg.Timeout,
		})
	default:
		return gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			ChatModel:       cfg.ChatModel,
			ExtractionModel: cfg.ExtractionModel,
			EmbeddingModel:  cfg.EmbeddingModel,
			EmbeddingDim:    cfg.EmbeddingDim,
			ChatURL:         cfg.BaseURL,
			ChatKey:         cfg.APIKey,
			EmbeddingURL:    cfg.EmbeddingURL,
			EmbeddingKey:    cfg.EmbeddingKey,
			Timeout:         cfg.Timeout,
		}), nil
	}
}

// NewPgxPool opens the Postgres pool with pgvector types registered on
// every connection.
func NewPgxPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgxv5.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	return pgxpool.NewWithConfig(ctx, poolCfg)
}

func Init(cfg config.Config) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var key *keyfunc.Keyfunc
	if cfg.Server.AuthURL != "" {
		k, err := keyfunc.NewDefault([]string{cfg.Server.AuthURL + "/jwks"})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		key = &k
	}

	if err := storepgx.Migrate(cfg.DB.MigrationsURL, cfg.DB.URL); err != nil {
		logger.Fatal("Failed to migrate database", "err", err)
	}

	conn, err := NewPgxPool(ctx, cfg.DB.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	graphStore, err := graphdb.NewStore(ctx, graphdb.NewStoreParams{
		URI:      cfg.Graph.URI,
		Username: cfg.Graph.Username,
		Password: cfg.Graph.Password,
	})
	if err != nil {
		logger.Fatal("Failed to connect to graph database", "err", err)
	}
	defer graphStore.Close(ctx)

	aiClient, err := NewAIClient(cfg.LLM)
	if err != nil {
		logger.Fatal("Failed to create AI client", "err", err)
	}

	engine := query.NewEngine(graphStore, aiClient)
	articles := storepgx.NewArticleDBStorage(conn)
	documents := vector.NewDocumentStore(conn, aiClient)

	archive, err := storage.NewArchive(ctx, cfg.S3)
	if err != nil {
		logger.Fatal("Failed to create snapshot archive", "err", err)
	}

	que, err := queue.Init(cfg.Queue)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()
	if err := queue.SetupQueues(ch, queue.Queues); err != nil {
		logger.Fatal("Failed to declare queues", "err", err)
	}

	app := &mid.App{
		Engine:       engine,
		Articles:     articles,
		Documents:    documents,
		Archive:      archive,
		Queue:        ch,
		Key:          key,
		MasterAPIKey: cfg.Server.MasterAPIKey,
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(echomw.CORS())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1M"))

	RegisterRoutes(e)

	go func() {
		logger.Info("Starting server", "port", cfg.Server.Port)
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
