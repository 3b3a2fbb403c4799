package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/employes-api/internal/errs"
	"github.com/deppfellow/employes-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	rateLimitKeyPrefix    = "employes:ratelimit"
	rateLimitStoreTimeout = 100 * time.Millisecond
	memoryStoreExpiresIn  = 3 * time.Minute
)

// RateLimitMiddleware limits requests per client IP.
//
// With Redis configured the counters live there, shared by every instance,
// as fixed windows. Otherwise each instance keeps a token bucket per client.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the rate limiting middleware. It passes every request
// through when rate limiting is disabled.
func (r *RateLimitMiddleware) Limit(skipper middleware.Skipper) echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: skipper,
		Store:   r.store(),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewBadRequestError("could not identify client", false, nil, nil, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().Str("client", identifier).Msg("rate limit exceeded")
			return errs.NewTooManyRequestsError("Too many requests, retry later")
		},
	})
}

func (r *RateLimitMiddleware) store() middleware.RateLimiterStore {
	cfg := r.server.Config.RateLimit

	if r.server.Redis != nil {
		return &redisRateLimiterStore{
			client: r.server.Redis,
			limit:  int64(cfg.Requests),
			window: cfg.Window,
			logger: r.server.Logger,
		}
	}

	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		Burst:     cfg.Requests,
		ExpiresIn: memoryStoreExpiresIn,
	})
}

// RecordRateLimitHit sends a RateLimitHit custom event to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}

// redisRateLimiterStore counts requests per client in fixed windows.
// Redis failures let the request through.
type redisRateLimiterStore struct {
	client *redis.Client
	limit  int64
	window time.Duration
	logger *zerolog.Logger
}

func (s *redisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), rateLimitStoreTimeout)
	defer cancel()

	window := time.Now().UnixNano() / int64(s.window)
	key := fmt.Sprintf("%s:%s:%d", rateLimitKeyPrefix, identifier, window)

	pipe := s.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error().Err(err).Msg("rate limiter store unavailable, allowing request")
		return true, nil
	}

	return count.Val() <= s.limit, nil
}
