package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/stayin-booking/internal/model"
)

func newRepo(t *testing.T) (*SessionRepo, Store) {
	t.Helper()
	s := NewMemoryBackend().Scope("sid-1")
	return NewSessionRepo(s), s
}

func TestReservationIsReadOnce(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)

	want := model.ReservationSummary{
		Alojamento: "Hotel Central",
		Checkin:    "01/06/2025",
		Checkout:   "05/06/2025",
		Hospedes:   "2",
		Preco:      "400€",
	}
	if err := repo.SaveReservation(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.TakeReservation(ctx)
	if err != nil {
		t.Fatalf("first take: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if _, ok, _ := store.Get(ctx, KeyReservation); ok {
		t.Fatal("reservaDetalhes should be removed after the first read")
	}
	if _, err := repo.TakeReservation(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second take: want ErrNotFound, got %v", err)
	}
}

func TestTakeReservationDropsMalformedPayload(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)
	_ = store.Set(ctx, KeyReservation, "{not json")

	if _, err := repo.TakeReservation(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, ok, _ := store.Get(ctx, KeyReservation); ok {
		t.Fatal("malformed payload should be removed")
	}
}

func TestLoginKeepsExistingName(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	if err := repo.Login(ctx, "Viajante"); err != nil {
		t.Fatal(err)
	}
	if name, _ := repo.UserName(ctx); name != "Viajante" {
		t.Fatalf("first login name = %q", name)
	}
	_ = repo.SetUserName(ctx, "Ana")
	_ = repo.Logout(ctx)
	_ = repo.SetUserName(ctx, "Ana")
	if err := repo.Login(ctx, "Viajante"); err != nil {
		t.Fatal(err)
	}
	if name, _ := repo.UserName(ctx); name != "Ana" {
		t.Fatalf("login should keep stored name, got %q", name)
	}
}

func TestLogoutKeepsTheme(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	_ = repo.Register(ctx, "Rui", "")
	_ = repo.SetTheme(ctx, model.ThemeAuto)

	if err := repo.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	s, err := repo.LoadSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.IsLoggedIn || s.UserName != "" {
		t.Fatalf("expected logged-out session, got %+v", s)
	}
	if s.Theme != "auto" {
		t.Fatalf("theme should survive logout as the raw choice, got %q", s.Theme)
	}
}

func TestCommentIsWriteOnce(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	entry := model.CommentEntry{Avaliacao: 4, Comentario: "Muito bom", Data: time.Date(2025, 6, 6, 10, 0, 0, 0, time.UTC)}

	if err := repo.SaveComment(ctx, "42", entry); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Comment(ctx, "42")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Avaliacao != 4 || got.Comentario != "Muito bom" || !got.Data.Equal(entry.Data) {
		t.Fatalf("unexpected entry %+v", got)
	}
	if err := repo.SaveComment(ctx, "42", entry); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
	if _, err := repo.Comment(ctx, "43"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for other booking, got %v", err)
	}
}

func TestMemoryBackendIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	a, c := b.Scope("a"), b.Scope("c")
	_ = a.Set(ctx, KeyUserName, "Ana")

	if _, ok, _ := c.Get(ctx, KeyUserName); ok {
		t.Fatal("sessions must not share keys")
	}
	if err := c.Remove(ctx, "missing"); err != nil {
		t.Fatalf("removing an absent key should succeed: %v", err)
	}
}
