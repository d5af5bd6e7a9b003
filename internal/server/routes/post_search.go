package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"marketmind/internal/server/middleware"
	"marketmind/pkg/logger"
)

// SearchHandler runs semantic search over the embedded documents. When no
// document store is configured it falls back to graph keyword search so the
// endpoint stays useful.
func SearchHandler(c echo.Context) error {
	type searchRequest struct {
		Query string `json:"query" validate:"required"`
		Limit int    `json:"limit"`
	}

	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Query is required"})
	}
	if req.Limit <= 0 {
		req.Limit = 5
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	if app.Documents != nil {
		matches, err := app.Documents.Search(ctx, req.Query, req.Limit)
		if err == nil {
			return c.JSON(http.StatusOK, map[string]any{
				"query":   req.Query,
				"mode":    "semantic",
				"matches": matches,
			})
		}
		logger.Warn("[Server] Semantic search failed, using keyword search", "error", err)
	}

	result := app.Engine.NaturalLanguageQuery(ctx, req.Query)
	return c.JSON(http.StatusOK, map[string]any{
		"query":   req.Query,
		"mode":    "keyword",
		"matches": result.Articles,
	})
}
