package router

import (
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stayin-booking/internal/handler"
	"github.com/iliyamo/stayin-booking/internal/middleware"
)

// RegisterBooking registers the booking wizard under /api/reserva.  Every
// wizard route requires a logged-in session; anonymous browsers are sent to
// the login page.  The confirmation view stays public so a stale tab simply
// shows nothing.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler) {
	g := e.Group("/api/reserva", middleware.RequireLogin())
	g.POST("", h.Start)
	g.GET("", h.View)
	g.DELETE("", h.Discard)
	g.PATCH("/campos", h.Fields)
	g.PUT("/pagamento", h.Payment)
	g.POST("/seguinte", h.Next)
	g.POST("/anterior", h.Prev)
	g.POST("/enter", h.Enter)
	g.POST("/submeter", h.Submit)

	e.GET("/api/confirmacao", h.Confirmation)
}

// RegisterStatic serves the StayIn pages from dir.  The booking page itself
// sits behind the login guard, like its API.
func RegisterStatic(e *echo.Echo, dir string) {
	if dir == "" {
		return
	}
	e.File("/reserva.html", filepath.Join(dir, "reserva.html"), middleware.RequireLogin())
	e.Static("/", dir)
}
