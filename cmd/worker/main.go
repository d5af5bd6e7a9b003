package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"

	"marketmind/internal/config"
	"marketmind/internal/dedupe"
	"marketmind/internal/ingest"
	"marketmind/internal/queue"
	"marketmind/internal/storage"
	"marketmind/internal/util"
	"marketmind/pkg/ai"
	oai "marketmind/pkg/ai/ollama"
	gai "marketmind/pkg/ai/openai"
	"marketmind/pkg/feed"
	"marketmind/pkg/graph"
	graphdb "marketmind/pkg/graph/neo4j"
	"marketmind/pkg/leaselock"
	"marketmind/pkg/logger"
	"marketmind/pkg/logger/console"
	storepgx "marketmind/pkg/store/pgx"
	"marketmind/pkg/summarize"
	"marketmind/pkg/vector"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

func newAIClient(cfg config.LLMConfig) (ai.Client, error) {
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

func main() {
	util.LoadEnv()

	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Debug,
	})
	logger.Init(consoleLogger)

	aiClient, err := newAIClient(cfg.LLM)
	if err != nil {
		logger.Fatal("Could not create AI client", "err", err)
	}

	if err := storepgx.Migrate(cfg.DB.MigrationsURL, cfg.DB.URL); err != nil {
		logger.Fatal("Failed to migrate database", "err", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DB.URL)
	if err != nil {
		logger.Fatal("Invalid database URL", "err", err)
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgxv5.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	pgConn, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()

	graphStore, err := graphdb.NewStore(ctx, graphdb.NewStoreParams{
		URI:      cfg.Graph.URI,
		Username: cfg.Graph.Username,
		Password: cfg.Graph.Password,
	})
	if err != nil {
		logger.Fatal("Failed to connect to graph database", "err", err)
	}
	defer graphStore.Close(ctx)

	cache, err := dedupe.NewCache(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "err", err)
	}
	defer cache.Close()

	archive, err := storage.NewArchive(ctx, cfg.S3)
	if err != nil {
		logger.Fatal("Failed to create snapshot archive", "err", err)
	}

	articles := storepgx.NewArticleDBStorage(pgConn)
	documents := vector.NewDocumentStore(pgConn, aiClient)
	locks := leaselock.New(pgConn)
	writer := graph.NewWriter(graphStore, graph.NewExtractor(aiClient))
	summarizer := summarize.NewSummarizer(aiClient)
	filler := feed.NewFullTextFiller(&http.Client{Timeout: 30 * time.Second})

	newPipeline := func(keywords []string) *ingest.Pipeline {
		if keywords == nil {
			keywords = cfg.Ingest.Keywords
		}
		return ingest.NewPipeline(ingest.PipelineParams{
			Fetcher:        feed.NewFetcher(keywords, cfg.Ingest.MaxPerFeed),
			Filler:         filler,
			Summarizer:     summarizer,
			Articles:       articles,
			Documents:      documents,
			Writer:         writer,
			Cache:          cache,
			Archive:        archive,
			FetchWorkers:   cfg.Ingest.FetchWorkers,
			ProcessWorkers: cfg.Ingest.ProcessWorkers,
			RunTimeout:     cfg.Ingest.RunTimeout,
		})
	}

	// Init rabbitmq
	conn, err := queue.Init(cfg.Queue)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, queue.Queues); err != nil {
		logger.Fatal("Failed to declare queues", "err", err)
	}

	// Scheduled ingestion enqueues through the same queue as manual
	// triggers, so the worker processes runs one at a time.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Ingest.Schedule, func() {
		msg := queue.IngestJobMsg{Message: "Scheduled ingestion", JobID: fmt.Sprintf("cron_%d", time.Now().Unix())}
		payload, err := json.Marshal(msg)
		if err != nil {
			logger.Error("Failed to marshal scheduled job", "err", err)
			return
		}
		if err := queue.PublishFIFO(ch, queue.IngestQueue, payload); err != nil {
			logger.Error("Failed to enqueue scheduled job", "err", err)
			return
		}
		logger.Info("Scheduled ingestion enqueued", "job_id", msg.JobID)
	})
	if err != nil {
		logger.Fatal("Invalid ingestion schedule", "schedule", cfg.Ingest.Schedule, "err", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.Info("Listening for messages")

	// Single consumer channel with prefetch=1 so only one message is
	// in flight across all queues.
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	err = consumerCh.Qos(1, 0, true)
	if err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	type queuedMessage struct {
		msg       amqp.Delivery
		queueName string
	}

	messageChan := make(chan queuedMessage)

	for _, queueName := range queue.Queues {
		go func(qName string) {
			consumerTag := fmt.Sprintf("%s_consumer", qName)
			msgs, err := consumerCh.Consume(
				qName,
				consumerTag,
				false, // autoAck
				false, // exclusive
				false, // noLocal
				false, // noWait
				nil,   // args
			)
			if err != nil {
				logger.Fatal("Failed to start consuming", "queue", qName, "err", err)
			}

			for {
				select {
				case <-ctx.Done():
					logger.Info("Stopping consumer", "queue", qName)
					return
				case msg, ok := <-msgs:
					if !ok {
						logger.Info("Message channel closed", "queue", qName)
						return
					}
					messageChan <- queuedMessage{msg: msg, queueName: qName}
				}
			}
		}(queueName)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case qm := <-messageChan:
				startTime := time.Now()
				logger.Info("Received message", "queue", qm.queueName)

				var processingErr error
				switch qm.queueName {
				case queue.IngestQueue:
					processingErr = processIngest(ctx, locks, newPipeline, cfg.Ingest.Feeds, qm.msg.Body)
				case queue.ArticleQueue:
					processingErr = processArticle(ctx, newPipeline(nil), qm.msg.Body)
				}

				// Failed messages go to retry or dead-letter, successes ack.
				if processingErr != nil {
					logger.Error("Error processing message", "queue", qm.queueName, "err", processingErr)
					queue.HandleProcessingError(consumerCh, qm.msg, qm.queueName)
				} else {
					if err := qm.msg.Ack(false); err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					logger.Info("Message processed successfully", "queue", qm.queueName)
				}

				metrics := aiClient.GetMetrics()
				logger.Info(
					"AI Metrics",
					"input_tokens", metrics.InputTokens,
					"output_tokens", metrics.OutputTokens,
					"total_tokens", metrics.TotalTokens,
					"duration", (time.Duration(metrics.DurationMs) * time.Millisecond).Round(time.Second),
				)
				logger.Info("Processing time", "duration", time.Since(startTime).Round(time.Second))
				aiClient.ResetMetrics()
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}

func processIngest(ctx context.Context, locks *leaselock.Client, newPipeline func([]string) *ingest.Pipeline, defaultFeeds []string, body []byte) error {
	var msg queue.IngestJobMsg
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("unmarshal ingest job: %w", err)
	}

	feeds := msg.Feeds
	if len(feeds) == 0 {
		feeds = defaultFeeds
	}

	err := locks.WithLease(ctx, "ingest_run", 10*time.Minute, func(ctx context.Context) error {
		report, err := newPipeline(msg.Keywords).Run(ctx, feeds)
		if err != nil {
			return err
		}
		logger.Info(
			"Ingestion run complete",
			"job_id", report.JobID,
			"stored", report.Stored,
			"failed", report.Failed,
		)
		return nil
	})
	if errors.Is(err, leaselock.ErrBusy) {
		logger.Warn("Ingestion already running elsewhere, skipping", "job_id", msg.JobID)
		return nil
	}
	return err
}

func processArticle(ctx context.Context, pipeline *ingest.Pipeline, body []byte) error {
	var msg queue.ArticleJobMsg
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("unmarshal article job: %w", err)
	}
	return pipeline.ProcessArticle(ctx, msg.Article)
}
