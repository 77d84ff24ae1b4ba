package middleware // package middleware holds the echo middleware of the StayIn API

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stayin-booking/internal/repository"
	"github.com/iliyamo/stayin-booking/internal/utils"
)

// SessionCookie names the cookie that identifies a browser.
const SessionCookie = "stayin_sid"

// Context keys set by Session.
const (
	ctxSessionID   = "session_id"
	ctxSessionRepo = "session_repo"
)

// SessionConfig configures the session cookie.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool // set the Secure attribute; off for plain-HTTP development
}

// Session resolves the browser session for every request.  A valid signed
// cookie yields its session id; a missing, tampered or expired one starts a
// fresh session and sets a new cookie.  Handlers reach the session through
// SessionID and Repo.
func Session(cfg SessionConfig, backend repository.Backend) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(SessionCookie); err == nil {
				if v, err := utils.ParseSessionToken(cfg.Secret, ck.Value); err == nil {
					sid = v
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				tok, err := utils.NewSessionToken(cfg.Secret, sid, cfg.TTL)
				if err != nil {
					slog.Error("session token", "err", err)
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session unavailable"})
				}
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    tok.Token,
					Path:     "/",
					Expires:  tok.Exp,
					MaxAge:   int(cfg.TTL / time.Second),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(ctxSessionID, sid)
			c.Set(ctxSessionRepo, repository.NewSessionRepo(backend.Scope(sid)))
			return next(c)
		}
	}
}

// SessionID returns the id resolved by Session, "" outside it.
func SessionID(c echo.Context) string {
	s, _ := c.Get(ctxSessionID).(string)
	return s
}

// Repo returns the Session Store of the request.
func Repo(c echo.Context) *repository.SessionRepo {
	r, _ := c.Get(ctxSessionRepo).(*repository.SessionRepo)
	return r
}
