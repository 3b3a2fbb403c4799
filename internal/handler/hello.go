package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SayHello answers GET /sayHello with a plain-text greeting.
func SayHello(c echo.Context) error {
	return c.String(http.StatusOK, "Hello")
}
