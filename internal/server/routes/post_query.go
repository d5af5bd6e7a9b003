package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"marketmind/internal/server/middleware"
)

func QueryHandler(c echo.Context) error {
	type queryRequest struct {
		Query string `json:"query" validate:"required"`
	}

	var req queryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Query is required"})
	}
	if strings.TrimSpace(req.Query) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Query is required"})
	}

	engine := c.(*middleware.AppContext).App.Engine
	result := engine.NaturalLanguageQuery(c.Request().Context(), req.Query)

	return c.JSON(http.StatusOK, result)
}
