package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"marketmind/internal/queue"
	"marketmind/internal/server/middleware"
	"marketmind/pkg/common"
)

// SubmitArticleHandler queues a single article for processing, for content
// that does not arrive through a feed.
func SubmitArticleHandler(c echo.Context) error {
	var article common.Article
	if err := c.Bind(&article); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := article.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title and link are required"})
	}

	jobID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not create job"})
	}

	payload, err := json.Marshal(queue.ArticleJobMsg{
		Message: "Manual article submission",
		JobID:   jobID,
		Article: article,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not create job"})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if ch == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Ingestion queue not available"})
	}
	if err := queue.PublishFIFO(ch, queue.ArticleQueue, payload); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not enqueue job"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"job_id":     jobID,
		"article_id": article.ID(),
	})
}
