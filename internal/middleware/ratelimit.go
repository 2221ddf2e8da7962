package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dmolina/building-table-reservation/internal/config"
	"github.com/dmolina/building-table-reservation/internal/logger"
)

// LoginRateLimit returns a fixed-window limiter for the login endpoint,
// keyed by client IP and building so one noisy client cannot lock out a
// whole building.  State lives in Redis; with no Redis client the
// middleware is a pass-through, and a Redis error during a request fails
// open (login availability beats limiter strictness).
func LoginRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			key := cfg.Prefix + ":login:" + ip + ":" + c.Param("building")

			ctx := c.Request().Context()
			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				logger.FromEcho(c).Warn("rate limiter unavailable", zap.Error(err))
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}
			if n > int64(cfg.Limit) {
				ttl, _ := rdb.TTL(ctx, key).Result()
				secs := int(math.Ceil(ttl.Seconds()))
				if secs < 1 {
					secs = int(cfg.Window / time.Second)
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many login attempts"})
			}
			return next(c)
		}
	}
}
