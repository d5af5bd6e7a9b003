package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"marketmind/internal/queue"
	"marketmind/internal/server/middleware"
	"marketmind/pkg/logger"
)

// TriggerIngestHandler enqueues an ingestion run for the worker. Feeds and
// keywords are optional overrides of the worker defaults.
func TriggerIngestHandler(c echo.Context) error {
	type ingestRequest struct {
		Feeds    []string `json:"feeds"`
		Keywords []string `json:"keywords"`
	}

	var req ingestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	jobID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not create job"})
	}

	msg := queue.IngestJobMsg{
		Message:  "Manual ingestion trigger",
		JobID:    jobID,
		Feeds:    req.Feeds,
		Keywords: req.Keywords,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not create job"})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if ch == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Ingestion queue not available"})
	}
	if err := queue.PublishFIFO(ch, queue.IngestQueue, payload); err != nil {
		logger.Error("[Server] Failed to enqueue ingest job", "job_id", jobID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not enqueue job"})
	}

	logger.Info("[Server] Ingest job enqueued", "job_id", jobID, "feeds", len(req.Feeds))
	return c.JSON(http.StatusAccepted, map[string]string{"job_id": jobID})
}
