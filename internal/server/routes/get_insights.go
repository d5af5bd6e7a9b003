package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketmind/internal/server/middleware"
)

func GetInsightsHandler(c echo.Context) error {
	engine := c.(*middleware.AppContext).App.Engine
	insights := engine.GetInsights(c.Request().Context())
	return c.JSON(http.StatusOK, insights)
}
