package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stayin-booking/internal/middleware"
	"github.com/iliyamo/stayin-booking/internal/model"
	"github.com/iliyamo/stayin-booking/internal/presenter"
	"github.com/iliyamo/stayin-booking/internal/queue"
	"github.com/iliyamo/stayin-booking/internal/repository"
	"github.com/iliyamo/stayin-booking/internal/service"
	"github.com/iliyamo/stayin-booking/internal/wizard"
)

// publishTimeout bounds the background publish of a submitted booking.
const publishTimeout = 5 * time.Second

// BookingHandler drives the booking wizard of each browser session and
// serves the confirmation view.  Every wizard route except Confirmation
// runs behind RequireLogin.
type BookingHandler struct {
	Registry    *wizard.Registry
	Publisher   service.ReservationPublisher
	SubmitDelay time.Duration
	Now         func() time.Time
}

func NewBookingHandler(reg *wizard.Registry, pub service.ReservationPublisher, delay time.Duration, now func() time.Time) *BookingHandler {
	if reg == nil {
		panic("nil registry passed to NewBookingHandler")
	}
	if pub == nil {
		pub = service.NopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &BookingHandler{Registry: reg, Publisher: pub, SubmitDelay: delay, Now: now}
}

// ----- DTOs -----

type startReq struct {
	Alojamento string `json:"alojamento"`
	DateRange  string `json:"daterange"`
	Hospedes   string `json:"hospedes"`
	Preco      string `json:"preco"`
}

type paymentReq struct {
	Method string `json:"method"`
}

type stepResp struct {
	Moved bool        `json:"moved"`
	View  wizard.View `json:"view"`
}

type submitResp struct {
	Reserva model.ReservationSummary `json:"reserva"`
	View    wizard.View              `json:"view"`
}

// Start handles POST /api/reserva.  It validates the selected stay against
// the date-range picker bounds and opens a wizard at the personal data
// step, replacing (and tearing down) any wizard the session already had.
func (h *BookingHandler) Start(c echo.Context) error {
	var req startReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	now := h.Now()
	checkin, checkout, err := presenter.NewDateRange(now).Parse(req.DateRange)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	repo, ok := sessionRepo(c)
	if !ok {
		return noSession(c)
	}
	stay := model.Stay{
		Alojamento: strings.TrimSpace(req.Alojamento),
		Checkin:    checkin,
		Checkout:   checkout,
		Hospedes:   strings.TrimSpace(req.Hospedes),
		Preco:      strings.TrimSpace(req.Preco),
	}
	m := wizard.NewMachine(stay, repo, wizard.Options{SubmitDelay: h.SubmitDelay, Now: h.Now})
	s := h.Registry.Start(middleware.SessionID(c), m)
	return c.JSON(http.StatusCreated, s.View())
}

// View handles GET /api/reserva.
func (h *BookingHandler) View(c echo.Context) error {
	s, err := h.Registry.Get(middleware.SessionID(c))
	if err != nil {
		return wizardError(c, err)
	}
	return c.JSON(http.StatusOK, s.View())
}

// Fields handles PATCH /api/reserva/campos with a name→value object of
// input events.  A payment radio change is applied before the other
// fields so the active panel is settled first; the rest go in name order.
func (h *BookingHandler) Fields(c echo.Context) error {
	var body map[string]string
	if err := c.Bind(&body); err != nil || len(body) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, err := h.Registry.Get(middleware.SessionID(c))
	if err != nil {
		return wizardError(c, err)
	}
	names := make([]string, 0, len(body))
	for name := range body {
		if name != wizard.FieldPaymentMethod {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := body[wizard.FieldPaymentMethod]; ok {
		names = append([]string{wizard.FieldPaymentMethod}, names...)
	}
	for _, name := range names {
		if err := s.Machine.Input(name, body[name]); err != nil {
			return wizardError(c, err)
		}
	}
	return c.JSON(http.StatusOK, s.View())
}

// Payment handles PUT /api/reserva/pagamento.
func (h *BookingHandler) Payment(c echo.Context) error {
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, err := h.Registry.Get(middleware.SessionID(c))
	if err != nil {
		return wizardError(c, err)
	}
	if err := s.Machine.SelectPayment(model.PaymentMethod(req.Method)); err != nil {
		return wizardError(c, err)
	}
	return c.JSON(http.StatusOK, s.View())
}

// Next handles POST /api/reserva/seguinte.
func (h *BookingHandler) Next(c echo.Context) error {
	return h.step(c, (*wizard.Machine).Advance)
}

// Prev handles POST /api/reserva/anterior.
func (h *BookingHandler) Prev(c echo.Context) error {
	return h.step(c, (*wizard.Machine).Retreat)
}

// Enter handles POST /api/reserva/enter, the intercepted Enter key.
func (h *BookingHandler) Enter(c echo.Context) error {
	return h.step(c, (*wizard.Machine).Enter)
}

func (h *BookingHandler) step(c echo.Context, move func(*wizard.Machine) (bool, error)) error {
	s, err := h.Registry.Get(middleware.SessionID(c))
	if err != nil {
		return wizardError(c, err)
	}
	moved, err := move(s.Machine)
	if err != nil {
		return wizardError(c, err)
	}
	return c.JSON(http.StatusOK, stepResp{Moved: moved, View: s.View()})
}

// Submit handles POST /api/reserva/submeter.  A form that fails full-form
// validation answers 422 with the marked view; a second submit while the
// first is pending answers 409.  On success the summary is staged for the
// confirmation view, the submit control switches to its busy state and the
// redirect appears in the view once the submit delay has passed.
func (h *BookingHandler) Submit(c echo.Context) error {
	sid := middleware.SessionID(c)
	s, err := h.Registry.Get(sid)
	if err != nil {
		return wizardError(c, err)
	}
	summary, err := s.Machine.Submit(c.Request().Context())
	switch {
	case errors.Is(err, wizard.ErrInvalid):
		return c.JSON(http.StatusUnprocessableEntity, s.View())
	case err != nil:
		return wizardError(c, err)
	}

	h.publish(c, sid, summary, s.Machine.Snapshot().Method)
	return c.JSON(http.StatusAccepted, submitResp{Reserva: summary, View: s.View()})
}

// publish announces the booking without holding up the response.
func (h *BookingHandler) publish(c echo.Context, sid string, summary model.ReservationSummary, method string) {
	user := ""
	if repo, ok := sessionRepo(c); ok {
		user, _ = repo.UserName(c.Request().Context())
	}
	ev := queue.NewReservationSubmittedEvent(sid, user, model.PaymentMethod(method), summary, h.Now())
	ctx := context.WithoutCancel(c.Request().Context())
	go func() {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := h.Publisher.PublishReservationSubmitted(ctx, ev); err != nil {
			slog.Warn("publish reservation submitted", "session", sid, "err", err)
		}
	}()
}

// Discard handles DELETE /api/reserva: the page is leaving, so any pending
// submit task is cancelled along with the draft.
func (h *BookingHandler) Discard(c echo.Context) error {
	h.Registry.Discard(middleware.SessionID(c))
	return c.NoContent(http.StatusNoContent)
}

// Confirmation handles GET /api/confirmacao.  The staged summary is read
// once and removed; without one the page shows nothing.  Reaching the
// confirmation view also disposes the booking page's wizard.
func (h *BookingHandler) Confirmation(c echo.Context) error {
	repo, ok := sessionRepo(c)
	if !ok {
		return noSession(c)
	}
	summary, err := repo.TakeReservation(c.Request().Context())
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusOK, echo.Map{"reserva": nil})
	}
	if err != nil {
		return storeFailure(c, "take reservation", err)
	}
	h.Registry.Discard(middleware.SessionID(c))
	return c.JSON(http.StatusOK, echo.Map{"reserva": summary})
}

// wizardError maps wizard sentinels onto HTTP codes.
func wizardError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, wizard.ErrNotStarted), errors.Is(err, wizard.ErrClosed):
		return c.JSON(http.StatusNotFound, echo.Map{"error": wizard.ErrNotStarted.Error()})
	case errors.Is(err, wizard.ErrSubmitting):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, wizard.ErrUnknownField), errors.Is(err, wizard.ErrUnknownPaymentMethod):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return storeFailure(c, "booking", err)
	}
}
