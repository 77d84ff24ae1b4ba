package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stayin-booking/internal/middleware"
	"github.com/iliyamo/stayin-booking/internal/repository"
)

// Pages returned as navigation targets.
const (
	PageHome = "index.html"
)

// sessionRepo returns the Session Store bound by the session middleware.
func sessionRepo(c echo.Context) (*repository.SessionRepo, bool) {
	r := middleware.Repo(c)
	return r, r != nil
}

// storeFailure logs a Session Store error and answers 500.
func storeFailure(c echo.Context, op string, err error) error {
	slog.Error("session store", "op", op, "session", middleware.SessionID(c), "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session store unavailable"})
}

func noSession(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session unavailable"})
}

// redirectTo tells the page to navigate.
func redirectTo(c echo.Context, page string) error {
	return c.JSON(http.StatusOK, echo.Map{"redirect": page})
}
