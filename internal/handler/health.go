package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/employes-api/internal/middleware"
	"github.com/deppfellow/employes-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HealthRecorder counts health check outcomes.
type HealthRecorder interface {
	RecordHealthCheck(check string, healthy bool)
}

// HealthHandler reports whether the service and its dependencies are reachable.
type HealthHandler struct {
	Handler
	recorder HealthRecorder
}

func NewHealthHandler(s *server.Server, recorder HealthRecorder) *HealthHandler {
	return &HealthHandler{
		Handler:  NewHandler(s),
		recorder: recorder,
	}
}

// CheckResult is the outcome of one dependency probe.
type CheckResult struct {
	Status       string         `json:"status"`
	ResponseTime string         `json:"response_time"`
	Error        string         `json:"error,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Driver      string                 `json:"driver"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckHealth answers 200 when every required check passes and 503
// otherwise. Redis is optional: a failing Redis is reported but keeps the
// service healthy since rate limiting falls back to letting requests through.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	healthCfg := h.server.Config.Observability.HealthChecks
	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Driver:      h.server.DB.Driver,
		Checks:      make(map[string]CheckResult),
	}

	if healthCfg.Has("database") {
		result := h.probe(c.Request().Context(), logger, "database", healthCfg.Timeout, h.server.DB.Ping)
		if result.Status == "healthy" {
			result.Details = h.server.DB.Stats()
		} else {
			response.Status = "unhealthy"
		}
		response.Checks["database"] = result
	}

	if healthCfg.Has("redis") && h.server.Redis != nil {
		response.Checks["redis"] = h.probe(c.Request().Context(), logger, "redis", healthCfg.Timeout,
			func(ctx context.Context) error {
				return h.server.Redis.Ping(ctx).Err()
			})
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		h.recordEvent(map[string]interface{}{
			"check_type":        "overall",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})
	} else {
		logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")
	}

	return c.JSON(status, response)
}

func (h *HealthHandler) probe(
	parent context.Context,
	logger zerolog.Logger,
	name string,
	timeout time.Duration,
	ping func(ctx context.Context) error,
) CheckResult {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	probeStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(probeStart)

	if h.recorder != nil {
		h.recorder.RecordHealthCheck(name, err == nil)
	}

	if err != nil {
		logger.Error().Err(err).Str("check", name).Dur("response_time", elapsed).Msg("health check failed")
		h.recordEvent(map[string]interface{}{
			"check_type":       name,
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
		return CheckResult{
			Status:       "unhealthy",
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return CheckResult{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
	}
}

func (h *HealthHandler) recordEvent(params map[string]interface{}) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		params["operation"] = "health_check"
		app.RecordCustomEvent("HealthCheckError", params)
	}
}
