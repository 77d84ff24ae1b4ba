package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stayin-booking/internal/model"
	"github.com/iliyamo/stayin-booking/internal/presenter"
)

// PageHandler serves the projections every page applies on load: navbar,
// theme, homepage personalisation and the date-range picker.
type PageHandler struct {
	Now func() time.Time
}

func NewPageHandler(now func() time.Time) *PageHandler {
	if now == nil {
		now = time.Now
	}
	return &PageHandler{Now: now}
}

// Navbar handles GET /api/navbar.
func (h *PageHandler) Navbar(c echo.Context) error {
	repo, ok := sessionRepo(c)
	if !ok {
		return noSession(c)
	}
	s, err := repo.LoadSession(c.Request().Context())
	if err != nil {
		return storeFailure(c, "load session", err)
	}
	return c.JSON(http.StatusOK, presenter.ProjectNavbar(s))
}

// Theme handles GET /api/theme.  The OS preference arrives as a client hint,
// which the response asks the browser to keep sending.
func (h *PageHandler) Theme(c echo.Context) error {
	repo, ok := sessionRepo(c)
	if !ok {
		return noSession(c)
	}
	stored, err := repo.Theme(c.Request().Context())
	if err != nil {
		return storeFailure(c, "load theme", err)
	}
	return c.JSON(http.StatusOK, themeView(c, stored))
}

type themeReq struct {
	Theme string `json:"theme"`
}

// SetTheme handles PUT /api/theme.  The raw choice is stored, "auto"
// included, and the resolved view returned.
func (h *PageHandler) SetTheme(c echo.Context) error {
	var req themeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t, ok := model.ParseTheme(req.Theme)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theme must be light, dark or auto"})
	}
	repo, ok := sessionRepo(c)
	if !ok {
		return noSession(c)
	}
	if err := repo.SetTheme(c.Request().Context(), t); err != nil {
		return storeFailure(c, "save theme", err)
	}
	return c.JSON(http.StatusOK, themeView(c, string(t)))
}

func themeView(c echo.Context, stored string) presenter.ThemeView {
	h := c.Response().Header()
	h.Set("Accept-CH", presenter.PreferenceHeader)
	h.Add(echo.HeaderVary, presenter.PreferenceHeader)
	pref := presenter.ParsePreference(c.Request().Header.Get(presenter.PreferenceHeader))
	return presenter.ProjectTheme(stored, pref)
}

// Home handles GET /api/home.
func (h *PageHandler) Home(c echo.Context) error {
	repo, ok := sessionRepo(c)
	if !ok {
		return noSession(c)
	}
	s, err := repo.LoadSession(c.Request().Context())
	if err != nil {
		return storeFailure(c, "load session", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"navbar": presenter.ProjectNavbar(s),
		"home":   presenter.ProjectHome(s),
	})
}

// DateRange handles GET /api/daterange.
func (h *PageHandler) DateRange(c echo.Context) error {
	return c.JSON(http.StatusOK, presenter.NewDateRange(h.Now()))
}
