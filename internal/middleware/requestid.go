package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dmolina/building-table-reservation/internal/logger"
)

// RequestID assigns a unique ID to each request, echoes it back in the
// X-Request-ID header and binds a request-scoped logger carrying it.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.New().String()
			}
			c.Response().Header().Set("X-Request-ID", id)
			c.Set("logger", logger.L().With(zap.String("request_id", id)))
			return next(c)
		}
	}
}
