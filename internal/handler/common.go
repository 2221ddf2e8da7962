package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dmolina/building-table-reservation/internal/database"
	"github.com/dmolina/building-table-reservation/internal/logger"
)

// storeError turns a data-store failure that survived its retries into a
// 500 with a generic message.  Internal details go to the log, never to
// the client.
func storeError(c echo.Context, err error) error {
	if database.IsTransient(err) {
		logger.FromEcho(c).Error("data store unavailable", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "service temporarily unavailable"})
	}
	logger.FromEcho(c).Error("database error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
