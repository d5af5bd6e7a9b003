package graph

import (
	"context"
	"fmt"

	"marketmind/pkg/common"
	"marketmind/pkg/logger"
)

// Writer persists an article and its extraction into the knowledge graph.
// Entity and relationship merges are isolated per item: one bad item is
// logged and skipped, the rest of the batch continues.
type Writer struct {
	store     Store
	extractor *Extractor
}

// NewWriter returns a Writer over the given store. The extractor is used
// when Store is called without a ready-made extraction.
func NewWriter(store Store, extractor *Extractor) *Writer {
	return &Writer{store: store, extractor: extractor}
}

// Store writes the article and its knowledge graph structure. When
// extraction is nil the writer runs the extractor itself.
func (w *Writer) Store(ctx context.Context, article common.Article, extraction *common.Extraction) error {
	if err := article.Validate(); err != nil {
		return err
	}

	var extracted common.Extraction
	if extraction != nil {
		extracted = *extraction
	} else if w.extractor != nil {
		extracted = w.extractor.Extract(ctx, article)
	} else {
		extracted = common.EmptyExtraction()
	}
	extracted.Normalize()

	articleID, err := w.store.MergeArticle(ctx, article, extracted)
	if err != nil {
		return fmt.Errorf("merge article: %w", err)
	}

	source := article.Source
	if source == "" {
		source = "Unknown"
	}
	if err := w.store.MergeSource(ctx, source, articleID); err != nil {
		return fmt.Errorf("merge source: %w", err)
	}

	for _, entity := range extracted.Entities {
		if entity.Name == "" {
			continue
		}
		if err := w.store.MergeEntity(ctx, articleID, entity); err != nil {
			logger.Warn("[Graph] could not merge entity",
				"entity", entity.Name, "article", article.Title, "err", err)
			continue
		}
	}

	for _, rel := range extracted.Relationships {
		if rel.From == "" || rel.To == "" {
			continue
		}
		if err := w.store.MergeRelationship(ctx, articleID, rel); err != nil {
			logger.Warn("[Graph] could not merge relationship",
				"from", rel.From, "to", rel.To, "err", err)
			continue
		}
	}

	logger.Info("[Graph] stored article", "title", article.Title, "id", articleID)
	return nil
}
