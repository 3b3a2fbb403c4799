// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"strings"

	"github.com/deppfellow/employes-api/internal/handler"
	"github.com/deppfellow/employes-api/internal/middleware"
	"github.com/deppfellow/employes-api/internal/server"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// NewRouter builds the Echo instance serving the whole API.
func NewRouter(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = m.Global.GlobalErrorHandler

	router.Pre(echoMiddleware.RemoveTrailingSlash())

	router.Use(
		m.Metrics.Instrument(),
		m.Global.CORS(),
		m.Global.Secure(),
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		m.Global.RequestLogger(),
		m.Global.Recover(),
		m.RateLimit.Limit(skipSystemRoutes),
	)

	registerSystemRoutes(router, h, m)
	registerEmployeeRoutes(router, h)
	router.GET("/sayHello", handler.SayHello)

	return router
}

// skipSystemRoutes exempts probes and scrapes from rate limiting.
func skipSystemRoutes(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == "/status" || path == "/metrics" || path == "/docs" || strings.HasPrefix(path, "/static/")
}
