package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stayin-booking/internal/presenter"
	"github.com/iliyamo/stayin-booking/internal/utils"
	"github.com/iliyamo/stayin-booking/internal/wizard"
)

// AuthHandler serves the fake login, registration and logout.  There is no
// account store: a browser session is "logged in" once isLoggedIn is set.
type AuthHandler struct {
	Hasher   utils.Hasher
	validate *validator.Validate
}

func NewAuthHandler(h utils.Hasher) *AuthHandler {
	return &AuthHandler{Hasher: h, validate: validator.New()}
}

// ----- DTOs -----

type registerReq struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

func (r *registerReq) trim() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
}

// Login handles POST /api/login.  Credentials are not checked; the first
// login names the user "Viajante".
func (h *AuthHandler) Login(c echo.Context) error {
	repo, ok := sessionRepo(c)
	if !ok {
		return noSession(c)
	}
	if err := repo.Login(c.Request().Context(), presenter.GreetingFallback); err != nil {
		return storeFailure(c, "login", err)
	}
	return redirectTo(c, PageHome)
}

// Register handles POST /api/registo.  An invalid form answers 422 with the
// failing fields; a valid one logs the session in under the first name and
// keeps a bcrypt hash of the password for the profile page.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.trim()
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"was_validated": true,
			"errors":        fieldErrors(verrs),
		})
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	repo, ok := sessionRepo(c)
	if !ok {
		return noSession(c)
	}
	if err := repo.Register(c.Request().Context(), req.FirstName, hash); err != nil {
		return storeFailure(c, "register", err)
	}
	return redirectTo(c, PageHome)
}

// fieldErrors maps validator failures onto the register-* inputs using the
// browser's own constraint messages.
func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	ids := map[string]string{
		"FirstName": "register-firstname",
		"LastName":  "register-lastname",
		"Email":     "register-email",
		"Password":  "register-password",
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg := wizard.MsgValueMissing
		if fe.Tag() == "email" {
			msg = wizard.MsgBadEmail
		}
		out[ids[fe.StructField()]] = msg
	}
	return out
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	repo, ok := sessionRepo(c)
	if !ok {
		return noSession(c)
	}
	if err := repo.Logout(c.Request().Context()); err != nil {
		return storeFailure(c, "logout", err)
	}
	return redirectTo(c, PageHome)
}
