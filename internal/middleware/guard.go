package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// LoginPage is where unauthenticated visitors of the booking page go.
const LoginPage = "/login.html"

// RequireLogin lets the request through only when isLoggedIn is "true" in
// the session; everyone else is sent to the login page with 303 See Other.
// It must run after Session.
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			repo := Repo(c)
			if repo == nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session unavailable"})
			}
			ok, err := repo.IsLoggedIn(c.Request().Context())
			if err != nil {
				slog.Error("login guard", "session", SessionID(c), "err", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session unavailable"})
			}
			if !ok {
				return c.Redirect(http.StatusSeeOther, LoginPage)
			}
			return next(c)
		}
	}
}
