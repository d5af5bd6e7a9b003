package queue

import (
	"marketmind/pkg/common"
)

// IngestJobMsg asks the worker to run a full feed ingestion pass. Empty
// Feeds or Keywords fall back to the worker's configured defaults.
type IngestJobMsg struct {
	Message  string   `json:"message"`
	JobID    string   `json:"job_id"`
	Feeds    []string `json:"feeds,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// ArticleJobMsg asks the worker to reprocess a single article through
// summarization, storage and graph extraction.
type ArticleJobMsg struct {
	Message string         `json:"message"`
	JobID   string         `json:"job_id"`
	Article common.Article `json:"article"`
}
