package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stayin-booking/internal/rating"
)

var bookingID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// RatingHandler serves the rating card of each past booking.
type RatingHandler struct {
	Now func() time.Time
}

func NewRatingHandler(now func() time.Time) *RatingHandler {
	if now == nil {
		now = time.Now
	}
	return &RatingHandler{Now: now}
}

type ratingReq struct {
	Avaliacao  int    `json:"avaliacao"`
	Comentario string `json:"comentario"`
}

// Get handles GET /api/avaliacoes/:id.  The optional selecionado and hover
// query parameters preview the input stars: hover shows its level, and
// without it the committed level is shown.
func (h *RatingHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if !bookingID.MatchString(id) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var w rating.Widget
	if v := c.QueryParam("selecionado"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "selecionado must be a number"})
		}
		w.Click(n)
	}
	if v := c.QueryParam("hover"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "hover must be a number"})
		}
		w.Hover(n)
	} else {
		w.Leave()
	}

	repo, ok := sessionRepo(c)
	if !ok {
		return noSession(c)
	}
	card, err := rating.Load(c.Request().Context(), repo, id)
	if err != nil {
		return storeFailure(c, "load comment", err)
	}
	card.Preview(&w)
	return c.JSON(http.StatusOK, card)
}

// Submit handles POST /api/avaliacoes/:id.  A missing star selection or an
// empty comment answers 400 with the alert text; a card that was already
// rated answers 409.
func (h *RatingHandler) Submit(c echo.Context) error {
	id := c.Param("id")
	if !bookingID.MatchString(id) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req ratingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	repo, ok := sessionRepo(c)
	if !ok {
		return noSession(c)
	}

	var w rating.Widget
	if req.Avaliacao >= 1 && req.Avaliacao <= rating.MaxStars {
		w.Click(req.Avaliacao)
	}
	card, err := rating.Submit(c.Request().Context(), repo, id, &w, req.Comentario, h.Now())
	switch {
	case errors.Is(err, rating.ErrNoRating), errors.Is(err, rating.ErrEmptyComment):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "alert": err.Error()})
	case errors.Is(err, rating.ErrAlreadyRated):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case err != nil:
		return storeFailure(c, "save comment", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"card": card, "alert": rating.MsgSaved})
}
