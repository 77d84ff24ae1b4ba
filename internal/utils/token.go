package utils // package utils provides helpers for session tokens and password hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSessionToken is returned for tokens that fail signature,
// algorithm, expiry or claim checks.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionToken is a signed cookie value together with its expiry.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// sessionClaims carries the browser session id in "sid" next to the
// registered exp/iat claims.
type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewSessionToken signs an HS256 JWT binding sid for ttl.  The token is the
// value of the session cookie; the session data itself stays in the store.
func NewSessionToken(secret, sid string, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := sessionClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies raw and returns its session id.  Only HMAC
// signatures are accepted.
func ParseSessionToken(secret, raw string) (string, error) {
	var claims sessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSessionToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid || claims.SID == "" {
		return "", ErrInvalidSessionToken
	}
	return claims.SID, nil
}
