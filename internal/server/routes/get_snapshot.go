package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"marketmind/internal/server/middleware"
)

// GetSnapshotHandler serves an archived ingestion snapshot by its object
// key, for auditing what a past run fetched.
func GetSnapshotHandler(c echo.Context) error {
	key := strings.TrimSpace(c.QueryParam("key"))
	if key == "" || !strings.HasPrefix(key, "snapshots/") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid snapshot key"})
	}

	archive := c.(*middleware.AppContext).App.Archive
	if archive == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Snapshot archive not configured"})
	}

	payload, err := archive.GetSnapshot(c.Request().Context(), key)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Snapshot not found"})
	}

	return c.JSONBlob(http.StatusOK, payload)
}
