package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/iliyamo/stayin-booking/internal/model"
)

// Session is a snapshot of the identity keys of a browser session.
type Session struct {
	IsLoggedIn bool
	UserName   string // empty when unset
	Theme      string // raw stored value, empty when unset
}

// SessionRepo is the typed face of a Store.  Every method is a thin
// get/set/remove over one or two keys; none of them spans a transaction.
type SessionRepo struct {
	Store Store
}

func NewSessionRepo(s Store) *SessionRepo { return &SessionRepo{Store: s} }

// LoadSession reads the keys the navbar presenter needs.
func (r *SessionRepo) LoadSession(ctx context.Context) (Session, error) {
	var s Session
	logged, _, err := r.Store.Get(ctx, KeyIsLoggedIn)
	if err != nil {
		return s, err
	}
	s.IsLoggedIn = logged == "true"
	if s.UserName, _, err = r.Store.Get(ctx, KeyUserName); err != nil {
		return s, err
	}
	if s.Theme, _, err = r.Store.Get(ctx, KeyTheme); err != nil {
		return s, err
	}
	return s, nil
}

// Login marks the session as logged in and sets defaultName as the user
// name only when no name was stored before.
func (r *SessionRepo) Login(ctx context.Context, defaultName string) error {
	if err := r.Store.Set(ctx, KeyIsLoggedIn, "true"); err != nil {
		return err
	}
	_, ok, err := r.Store.Get(ctx, KeyUserName)
	if err != nil || ok {
		return err
	}
	return r.Store.Set(ctx, KeyUserName, defaultName)
}

// Register logs the session in under name.  passwordHash may be empty.
func (r *SessionRepo) Register(ctx context.Context, name, passwordHash string) error {
	if err := r.Store.Set(ctx, KeyIsLoggedIn, "true"); err != nil {
		return err
	}
	if err := r.Store.Set(ctx, KeyUserName, name); err != nil {
		return err
	}
	if passwordHash == "" {
		return nil
	}
	return r.Store.Set(ctx, KeyPasswordHash, passwordHash)
}

// Logout clears isLoggedIn and userName.  Theme, staged reservations and
// comments stay.
func (r *SessionRepo) Logout(ctx context.Context) error {
	if err := r.Store.Remove(ctx, KeyIsLoggedIn); err != nil {
		return err
	}
	return r.Store.Remove(ctx, KeyUserName)
}

func (r *SessionRepo) IsLoggedIn(ctx context.Context) (bool, error) {
	v, _, err := r.Store.Get(ctx, KeyIsLoggedIn)
	return v == "true", err
}

func (r *SessionRepo) UserName(ctx context.Context) (string, error) {
	v, _, err := r.Store.Get(ctx, KeyUserName)
	return v, err
}

func (r *SessionRepo) SetUserName(ctx context.Context, name string) error {
	return r.Store.Set(ctx, KeyUserName, name)
}

// PasswordHash returns the stored bcrypt hash, or "" when none was set.
func (r *SessionRepo) PasswordHash(ctx context.Context) (string, error) {
	v, _, err := r.Store.Get(ctx, KeyPasswordHash)
	return v, err
}

func (r *SessionRepo) SetPasswordHash(ctx context.Context, hash string) error {
	return r.Store.Set(ctx, KeyPasswordHash, hash)
}

// Theme returns the raw stored choice, or "" when the user never picked one.
func (r *SessionRepo) Theme(ctx context.Context) (string, error) {
	v, _, err := r.Store.Get(ctx, KeyTheme)
	return v, err
}

// SetTheme persists the raw choice, "auto" included.
func (r *SessionRepo) SetTheme(ctx context.Context, t model.Theme) error {
	return r.Store.Set(ctx, KeyTheme, string(t))
}

// SaveReservation stages the summary for the confirmation view, replacing
// any previous one.
func (r *SessionRepo) SaveReservation(ctx context.Context, s model.ReservationSummary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Store.Set(ctx, KeyReservation, string(b))
}

// TakeReservation reads the staged summary and deletes it.  A second call
// returns ErrNotFound.  Undecodable payloads are dropped and reported as
// not found.
func (r *SessionRepo) TakeReservation(ctx context.Context) (model.ReservationSummary, error) {
	var s model.ReservationSummary
	raw, ok, err := r.Store.Get(ctx, KeyReservation)
	if err != nil {
		return s, err
	}
	if !ok {
		return s, ErrNotFound
	}
	if err := r.Store.Remove(ctx, KeyReservation); err != nil {
		return s, err
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil || raw == "null" {
		return model.ReservationSummary{}, ErrNotFound
	}
	return s, nil
}

// CommentKey builds the key of a booking's comment entry.
func CommentKey(reservaID string) string {
	return model.CommentKeyPrefix + strings.TrimSpace(reservaID)
}

// Comment loads the saved rating of a booking.
func (r *SessionRepo) Comment(ctx context.Context, reservaID string) (model.CommentEntry, error) {
	var e model.CommentEntry
	raw, ok, err := r.Store.Get(ctx, CommentKey(reservaID))
	if err != nil {
		return e, err
	}
	if !ok {
		return e, ErrNotFound
	}
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return model.CommentEntry{}, ErrNotFound
	}
	return e, nil
}

// SaveComment writes the entry once; an existing entry yields ErrAlreadyExists.
func (r *SessionRepo) SaveComment(ctx context.Context, reservaID string, e model.CommentEntry) error {
	if _, err := r.Comment(ctx, reservaID); err == nil {
		return ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.Store.Set(ctx, CommentKey(reservaID), string(b))
}
