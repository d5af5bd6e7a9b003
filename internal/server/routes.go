package server

import (
	"github.com/labstack/echo/v4"

	"marketmind/internal/server/middleware"
	"marketmind/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Query routes
	apiRoutes.POST("/query", routes.QueryHandler)
	apiRoutes.POST("/search", routes.SearchHandler)
	apiRoutes.GET("/insights", routes.GetInsightsHandler)

	// Article routes
	apiRoutes.GET("/articles", routes.GetRecentArticlesHandler)
	apiRoutes.GET("/articles/related", routes.GetRelatedArticlesHandler)
	apiRoutes.POST("/articles", routes.SubmitArticleHandler, middleware.RequireAdmin)
	apiRoutes.GET("/sources", routes.GetSourcesHandler)

	// Ingestion routes
	apiRoutes.POST("/ingest", routes.TriggerIngestHandler, middleware.RequireAdmin)
	apiRoutes.GET("/snapshots", routes.GetSnapshotHandler, middleware.RequireAdmin)
}
