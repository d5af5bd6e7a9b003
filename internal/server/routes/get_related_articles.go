package routes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"marketmind/internal/server/middleware"
)

func GetRelatedArticlesHandler(c echo.Context) error {
	title := strings.TrimSpace(c.QueryParam("title"))
	if title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title is required"})
	}

	limit := 5
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid limit"})
		}
		limit = parsed
	}

	engine := c.(*middleware.AppContext).App.Engine
	related, err := engine.RelatedArticles(c.Request().Context(), title, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Related article lookup failed"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"title":   title,
		"related": related,
	})
}
