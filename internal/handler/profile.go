package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stayin-booking/internal/presenter"
	"github.com/iliyamo/stayin-booking/internal/profile"
	"github.com/iliyamo/stayin-booking/internal/utils"
)

// ProfileHandler serves the "Minha Conta" form.
type ProfileHandler struct {
	Hasher utils.Hasher
}

func NewProfileHandler(h utils.Hasher) *ProfileHandler {
	return &ProfileHandler{Hasher: h}
}

// Get handles GET /api/perfil: the form is prefilled with the stored name.
func (h *ProfileHandler) Get(c echo.Context) error {
	repo, ok := sessionRepo(c)
	if !ok {
		return noSession(c)
	}
	name, err := repo.UserName(c.Request().Context())
	if err != nil {
		return storeFailure(c, "load user name", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"firstName": name})
}

// Update handles PUT /api/perfil.  Failures answer 422 with per-field
// feedback; success stores the first name as userName (and the new password
// hash on a password change) and returns the refreshed navbar.
func (h *ProfileHandler) Update(c echo.Context) error {
	var form profile.Form
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	repo, ok := sessionRepo(c)
	if !ok {
		return noSession(c)
	}
	ctx := c.Request().Context()

	stored, err := repo.PasswordHash(ctx)
	if err != nil {
		return storeFailure(c, "load password hash", err)
	}
	res := profile.Validate(form, stored, h.Hasher)
	if !res.Valid {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"was_validated": true,
			"errors":        res.Errors,
		})
	}

	if err := repo.SetUserName(ctx, res.Name); err != nil {
		return storeFailure(c, "save user name", err)
	}
	if res.PasswordChange {
		hash, err := h.Hasher.Hash(res.NewPassword)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
		}
		if err := repo.SetPasswordHash(ctx, hash); err != nil {
			return storeFailure(c, "save password hash", err)
		}
	}

	s, err := repo.LoadSession(ctx)
	if err != nil {
		return storeFailure(c, "load session", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"navbar": presenter.ProjectNavbar(s)})
}
