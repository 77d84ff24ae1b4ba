package rating

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/stayin-booking/internal/model"
	"github.com/iliyamo/stayin-booking/internal/repository"
)

// CommentStore persists comment entries.  SessionRepo implements it.
type CommentStore interface {
	Comment(ctx context.Context, reservaID string) (model.CommentEntry, error)
	SaveComment(ctx context.Context, reservaID string, e model.CommentEntry) error
}

// Saved is the read-only view of a stored entry.
type Saved struct {
	Stars      []string  `json:"stars"`
	Avaliacao  int       `json:"avaliacao"`
	Comentario string    `json:"comentario"`
	Data       time.Time `json:"data"`
}

// Card is the state of one booking card.  Once an entry exists the form
// and the rate trigger stay hidden for good.  Stars holds the input stars
// while the form is shown.
type Card struct {
	ID            string   `json:"id"`
	FormHidden    bool     `json:"form_hidden"`
	SavedHidden   bool     `json:"saved_hidden"`
	TriggerHidden bool     `json:"trigger_hidden"`
	Stars         []string `json:"stars,omitempty"`
	Saved         *Saved   `json:"saved,omitempty"`
}

// Load returns the card of reservaID.  A missing or unreadable entry shows
// the input form.
func Load(ctx context.Context, s CommentStore, reservaID string) (Card, error) {
	e, err := s.Comment(ctx, reservaID)
	if errors.Is(err, repository.ErrNotFound) {
		return Card{ID: reservaID, SavedHidden: true, Stars: stars(0, StarFilled, StarEmpty)}, nil
	}
	if err != nil {
		return Card{}, err
	}
	return savedCard(reservaID, e), nil
}

// Submit validates w and comentario and stores the entry.  A card that
// already has an entry returns ErrAlreadyRated.
func Submit(ctx context.Context, s CommentStore, reservaID string, w *Widget, comentario string, now time.Time) (Card, error) {
	e, err := w.Submit(comentario, now)
	if err != nil {
		return Card{}, err
	}
	if err := s.SaveComment(ctx, reservaID, e); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return Card{}, ErrAlreadyRated
		}
		return Card{}, err
	}
	return savedCard(reservaID, e), nil
}

// Preview renders the input stars of w on a card whose form is shown.
func (c *Card) Preview(w *Widget) {
	if c.FormHidden {
		return
	}
	c.Stars = w.Stars()
}

func savedCard(id string, e model.CommentEntry) Card {
	return Card{
		ID:            id,
		FormHidden:    true,
		TriggerHidden: true,
		Saved: &Saved{
			Stars:      stars(e.Avaliacao, SavedStarFilled, SavedStarEmpty),
			Avaliacao:  e.Avaliacao,
			Comentario: e.Comentario,
			Data:       e.Data,
		},
	}
}
