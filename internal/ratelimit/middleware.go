package ratelimit

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
)

// Middleware throttles requests per client IP. Requests for which skipper returns true
// bypass the limiter. Limiter failures let the request through.
func Middleware(l Limiter, skipper middleware.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = middleware.DefaultSkipper
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}

			ctx := c.Request().Context()
			d, err := l.Allow(ctx, c.RealIP())
			if err != nil {
				core.Logger(ctx).Warn("rate limiter unavailable", "error", err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

			if !d.Allowed {
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
				gwErr := core.NewRateLimitError("", "too many requests, please try again later")
				return c.JSON(http.StatusTooManyRequests, gwErr.ToJSON())
			}
			return next(c)
		}
	}
}

// SkipPaths returns a skipper matching the given request paths exactly.
func SkipPaths(paths ...string) middleware.Skipper {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(c echo.Context) bool {
		_, ok := set[c.Request().URL.Path]
		return ok
	}
}
