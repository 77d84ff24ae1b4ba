package repository

import "context"

// Session Store keys.  Values are strings; the reservation summary and
// comment entries are JSON documents.
const (
	KeyTheme        = "theme"
	KeyIsLoggedIn   = "isLoggedIn"
	KeyUserName     = "userName"
	KeyReservation  = "reservaDetalhes"
	KeyPasswordHash = "passwordHash"
)

// Store is the key/value view of one browser session.  Writes are single
// key puts; there is no locking across keys, so two tabs of the same session
// may interleave freely.
type Store interface {
	// Get returns the value and true, or "" and false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes the key; removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Backend hands out Stores scoped to a session id.
type Backend interface {
	Scope(sessionID string) Store
	Close() error
}
