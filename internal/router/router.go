package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stayin-booking/internal/handler"
)

// RegisterRoutes registers the liveness check.
func RegisterRoutes(e *echo.Echo, h handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterPages registers the per-page projections under /api.  They need
// a browser session but not a login.
func RegisterPages(e *echo.Echo, p *handler.PageHandler) {
	g := e.Group("/api")
	g.GET("/navbar", p.Navbar)
	g.GET("/theme", p.Theme)
	g.PUT("/theme", p.SetTheme)
	g.GET("/home", p.Home)
	g.GET("/daterange", p.DateRange)
}

// RegisterAuth registers the fake login, registration, logout and the
// profile form.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, p *handler.ProfileHandler) {
	g := e.Group("/api")
	g.POST("/login", a.Login)
	g.POST("/registo", a.Register)
	g.POST("/logout", a.Logout)
	g.GET("/perfil", p.Get)
	g.PUT("/perfil", p.Update)
}

// RegisterRatings registers the rating cards of past bookings.
func RegisterRatings(e *echo.Echo, r *handler.RatingHandler) {
	g := e.Group("/api/avaliacoes")
	g.GET("/:id", r.Get)
	g.POST("/:id", r.Submit)
}
