// Package rating implements the star rating and comment card shown for each
// past booking.
package rating

import (
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/stayin-booking/internal/model"
)

// MaxStars is the number of stars of a card.
const MaxStars = 5

// Alert texts.
const (
	MsgNoRating     = "Por favor, selecione uma classificação de 1 a 5 estrelas."
	MsgEmptyComment = "Por favor, insira um comentário."
	MsgSaved        = "Avaliação enviada com sucesso!"
)

// Icon classes of the input stars and of the saved view.
const (
	StarFilled      = "bi bi-star-fill"
	StarEmpty       = "bi bi-star"
	SavedStarFilled = "bi bi-star-fill text-warning"
	SavedStarEmpty  = "bi bi-star text-secondary"
)

var (
	ErrNoRating     = errors.New(MsgNoRating)
	ErrEmptyComment = errors.New(MsgEmptyComment)
	ErrAlreadyRated = errors.New("booking already rated")
)

// Widget is the star selector of one card.  Hover previews a level,
// click commits it and leaving restores the committed level.
type Widget struct {
	selected int
	shown    int
}

// Hover previews n stars without committing.
func (w *Widget) Hover(n int) { w.shown = clamp(n) }

// Leave restores the committed level, or none.
func (w *Widget) Leave() { w.shown = w.selected }

// Click commits n stars.
func (w *Widget) Click(n int) {
	w.selected = clamp(n)
	w.shown = w.selected
}

// Selected is the committed level, 0 when nothing was clicked.
func (w *Widget) Selected() int { return w.selected }

// Stars returns the classes of the input stars at the shown level.
func (w *Widget) Stars() []string { return stars(w.shown, StarFilled, StarEmpty) }

// Submit checks the committed level and the comment.  The rating check
// comes first, so an empty comment is only reported once stars are chosen.
func (w *Widget) Submit(comentario string, now time.Time) (model.CommentEntry, error) {
	if w.selected < 1 || w.selected > MaxStars {
		return model.CommentEntry{}, ErrNoRating
	}
	c := strings.TrimSpace(comentario)
	if c == "" {
		return model.CommentEntry{}, ErrEmptyComment
	}
	return model.CommentEntry{Avaliacao: w.selected, Comentario: c, Data: now}, nil
}

func clamp(n int) int {
	switch {
	case n < 0:
		return 0
	case n > MaxStars:
		return MaxStars
	default:
		return n
	}
}

func stars(n int, filled, empty string) []string {
	out := make([]string, MaxStars)
	for i := range out {
		if i < n {
			out[i] = filled
		} else {
			out[i] = empty
		}
	}
	return out
}
