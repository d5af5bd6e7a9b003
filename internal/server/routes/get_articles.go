package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"marketmind/internal/server/middleware"
)

func GetRecentArticlesHandler(c echo.Context) error {
	days := 7
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid days"})
		}
		days = parsed
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid limit"})
		}
		limit = parsed
	}

	articles := c.(*middleware.AppContext).App.Articles
	since := time.Now().AddDate(0, 0, -days)
	recent, err := articles.ListRecent(c.Request().Context(), since, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Article lookup failed"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"days":     days,
		"articles": recent,
	})
}

func GetSourcesHandler(c echo.Context) error {
	articles := c.(*middleware.AppContext).App.Articles
	counts, err := articles.CountBySource(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Source lookup failed"})
	}
	return c.JSON(http.StatusOK, map[string]any{"sources": counts})
}
