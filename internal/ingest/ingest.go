// Package ingest runs the feed-to-graph pipeline: fetch RSS items, drop
// already-seen links, pull full text, condense summaries, persist articles
// and embeddings, and merge the extraction into the knowledge graph.
package ingest

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"marketmind/internal/dedupe"
	"marketmind/internal/storage"
	"marketmind/internal/util"
	"marketmind/pkg/common"
	"marketmind/pkg/feed"
	"marketmind/pkg/graph"
	"marketmind/pkg/logger"
	"marketmind/pkg/store"
	"marketmind/pkg/summarize"
	"marketmind/pkg/vector"
)

// Feed endpoints and the embedding API fail transiently; both stages get a
// few attempts before the item is given up on.
const maxTries = 3

// Report summarizes one ingestion run.
type Report struct {
	JobID     string        `json:"job_id"`
	Feeds     int           `json:"feeds"`
	Fetched   int           `json:"fetched"`
	Skipped   int           `json:"skipped"`
	Stored    int           `json:"stored"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
	StartedAt time.Time     `json:"started_at"`
}

// Pipeline wires the ingestion stages together. Optional stages (dedupe
// cache, document store, snapshot archive) may be nil.
type Pipeline struct {
	fetcher    *feed.Fetcher
	filler     *feed.FullTextFiller
	summarizer *summarize.Summarizer
	articles   store.ArticleStorage
	documents  *vector.DocumentStore
	writer     *graph.Writer
	cache      *dedupe.Cache
	archive    *storage.Archive

	fetchWorkers   int
	processWorkers int
	runTimeout     time.Duration
}

type PipelineParams struct {
	Fetcher    *feed.Fetcher
	Filler     *feed.FullTextFiller
	Summarizer *summarize.Summarizer
	Articles   store.ArticleStorage
	Documents  *vector.DocumentStore
	Writer     *graph.Writer
	Cache      *dedupe.Cache
	Archive    *storage.Archive

	FetchWorkers   int
	ProcessWorkers int
	RunTimeout     time.Duration
}

func NewPipeline(params PipelineParams) *Pipeline {
	fetchWorkers := params.FetchWorkers
	if fetchWorkers <= 0 {
		fetchWorkers = 4
	}
	processWorkers := params.ProcessWorkers
	if processWorkers <= 0 {
		processWorkers = 2
	}
	runTimeout := params.RunTimeout
	if runTimeout <= 0 {
		runTimeout = 30 * time.Minute
	}

	return &Pipeline{
		fetcher:        params.Fetcher,
		filler:         params.Filler,
		summarizer:     params.Summarizer,
		articles:       params.Articles,
		documents:      params.Documents,
		writer:         params.Writer,
		cache:          params.Cache,
		archive:        params.Archive,
		fetchWorkers:   fetchWorkers,
		processWorkers: processWorkers,
		runTimeout:     runTimeout,
	}
}

// Run fetches every feed and processes the new articles. Per-article
// failures are counted and logged, not fatal. The returned error covers
// run-level failures only, such as the context expiring.
func (p *Pipeline) Run(ctx context.Context, feeds []string) (Report, error) {
	jobID, err := gonanoid.New()
	if err != nil {
		jobID = "job"
	}

	ctx, cancel := context.WithTimeout(ctx, p.runTimeout)
	defer cancel()

	report := Report{JobID: jobID, Feeds: len(feeds), StartedAt: time.Now()}
	logger.Info("[Ingest] Starting run", "job_id", jobID, "feeds", len(feeds))

	articles, err := p.fetchAll(ctx, feeds)
	if err != nil {
		return report, err
	}
	report.Fetched = len(articles)

	fresh := make([]common.Article, 0, len(articles))
	for _, article := range articles {
		if p.cache.Seen(ctx, article.Link) {
			report.Skipped++
			continue
		}
		fresh = append(fresh, article)
	}

	stored, failed := p.processAll(ctx, jobID, fresh)
	report.Stored = stored
	report.Failed = failed
	report.Duration = time.Since(report.StartedAt)

	p.archiveRun(ctx, jobID, report, fresh)

	logger.Info(
		"[Ingest] Run finished",
		"job_id", jobID,
		"fetched", report.Fetched,
		"skipped", report.Skipped,
		"stored", report.Stored,
		"failed", report.Failed,
		"duration", report.Duration.Round(time.Second),
	)
	return report, ctx.Err()
}

func (p *Pipeline) fetchAll(ctx context.Context, feeds []string) ([]common.Article, error) {
	var mu sync.Mutex
	articles := make([]common.Article, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.fetchWorkers)

	for _, feedURL := range feeds {
		g.Go(func() error {
			items, err := util.RetryWithContext(gctx, maxTries, func(ctx context.Context) ([]common.Article, error) {
				return p.fetcher.Fetch(ctx, feedURL)
			})
			if err != nil {
				logger.Warn("[Ingest] Feed fetch failed", "feed", feedURL, "error", err)
				return nil
			}
			mu.Lock()
			articles = append(articles, items...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Feeds can syndicate the same story, keep the first copy per link.
	seen := make(map[string]bool, len(articles))
	unique := articles[:0]
	for _, article := range articles {
		if seen[article.Link] {
			continue
		}
		seen[article.Link] = true
		unique = append(unique, article)
	}
	return unique, nil
}

func (p *Pipeline) processAll(ctx context.Context, jobID string, articles []common.Article) (stored, failed int) {
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.processWorkers)

	for _, article := range articles {
		g.Go(func() error {
			if err := p.ProcessArticle(gctx, article); err != nil {
				logger.Warn("[Ingest] Article failed", "job_id", jobID, "link", article.Link, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			stored++
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return stored, failed
}

// ProcessArticle runs one article through the full pipeline. The graph
// write is the one stage that must succeed; embedding indexing is
// best-effort since the article is already queryable through the graph.
func (p *Pipeline) ProcessArticle(ctx context.Context, article common.Article) error {
	if err := article.Validate(); err != nil {
		return err
	}

	if p.filler != nil {
		article = p.filler.Fill(ctx, article)
	}
	if p.summarizer != nil {
		article = p.summarizer.Summarize(ctx, article)
	}

	if _, err := p.articles.SaveArticle(ctx, article); err != nil {
		return err
	}

	if p.documents != nil {
		err := util.RetryErrWithContext(ctx, maxTries, func(ctx context.Context) error {
			return p.documents.IndexArticle(ctx, article)
		})
		if err != nil {
			logger.Warn("[Ingest] Embedding index failed", "link", article.Link, "error", err)
		}
	}

	if err := p.writer.Store(ctx, article, nil); err != nil {
		return err
	}

	p.cache.Mark(ctx, article.Link)
	return nil
}

func (p *Pipeline) archiveRun(ctx context.Context, jobID string, report Report, articles []common.Article) {
	if p.archive == nil {
		return
	}

	payload, err := json.Marshal(struct {
		Report   Report           `json:"report"`
		Articles []common.Article `json:"articles"`
	}{Report: report, Articles: articles})
	if err != nil {
		logger.Warn("[Ingest] Snapshot marshal failed", "job_id", jobID, "error", err)
		return
	}

	key, err := p.archive.PutSnapshot(ctx, jobID, payload)
	if err != nil {
		logger.Warn("[Ingest] Snapshot upload failed", "job_id", jobID, "error", err)
		return
	}
	logger.Debug("[Ingest] Snapshot archived", "job_id", jobID, "key", key)
}
