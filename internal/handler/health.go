package handler // declare the package name; contains HTTP handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness together with the Session Store backend in
// use, so a redis request that fell back to memory is visible to operators.
type HealthHandler struct {
	Store string
}

// Health answers GET /healthz.
func (h HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "store": h.Store})
}
