package router

import (
	"github.com/deppfellow/employes-api/internal/handler"
	"github.com/deppfellow/employes-api/internal/middleware"
	"github.com/deppfellow/employes-api/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints that are not part of the
// employee API: health, metrics and documentation.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", m.Metrics.Handler())
	r.StaticFS("/static", static.FS)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
