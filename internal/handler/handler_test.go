package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/stayin-booking/internal/handler"
	"github.com/iliyamo/stayin-booking/internal/middleware"
	"github.com/iliyamo/stayin-booking/internal/queue"
	"github.com/iliyamo/stayin-booking/internal/repository"
	"github.com/iliyamo/stayin-booking/internal/router"
	"github.com/iliyamo/stayin-booking/internal/utils"
	"github.com/iliyamo/stayin-booking/internal/wizard"
)

func fixedNow() time.Time { return time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC) }

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationSubmittedEvent
	got    chan struct{}
}

func (p *recordingPublisher) PublishReservationSubmitted(_ context.Context, ev queue.ReservationSubmittedEvent) error {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	p.got <- struct{}{}
	return nil
}

type env struct {
	e   *echo.Echo
	pub *recordingPublisher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := echo.New()
	e.Use(middleware.Session(middleware.SessionConfig{Secret: "test", TTL: time.Hour}, repository.NewMemoryBackend()))

	reg := wizard.NewRegistry()
	t.Cleanup(reg.Close)
	pub := &recordingPublisher{got: make(chan struct{}, 4)}
	hasher := utils.NewHasher(bcrypt.MinCost)

	router.RegisterRoutes(e, handler.HealthHandler{Store: "memory"})
	router.RegisterPages(e, handler.NewPageHandler(fixedNow))
	router.RegisterAuth(e, handler.NewAuthHandler(hasher), handler.NewProfileHandler(hasher))
	router.RegisterBooking(e, handler.NewBookingHandler(reg, pub, 10*time.Millisecond, fixedNow))
	router.RegisterRatings(e, handler.NewRatingHandler(fixedNow))
	return &env{e: e, pub: pub}
}

// browser keeps the session cookie between requests.
type browser struct {
	t      *testing.T
	e      *echo.Echo
	cookie *http.Cookie
	header http.Header
}

func (en *env) browser(t *testing.T) *browser {
	return &browser{t: t, e: en.e, header: http.Header{}}
}

func (b *browser) do(method, path, body string) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range b.header {
		req.Header[k] = v
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rec := httptest.NewRecorder()
	b.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			b.cookie = ck
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, want, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	b := newEnv(t).browser(t)
	rec := b.do(http.MethodGet, "/healthz", "")
	expectStatus(t, rec, http.StatusOK)
	if got := decode[map[string]string](t, rec); got["status"] != "ok" || got["store"] != "memory" {
		t.Fatalf("got %v", got)
	}
}

func TestLoginLogout(t *testing.T) {
	b := newEnv(t).browser(t)

	nav := decode[map[string]any](t, b.do(http.MethodGet, "/api/navbar", ""))
	if nav["logged_in"] != false || nav["logged_in_hidden"] != true {
		t.Fatalf("anonymous navbar = %v", nav)
	}

	rec := b.do(http.MethodPost, "/api/login", "")
	expectStatus(t, rec, http.StatusOK)
	if got := decode[map[string]string](t, rec); got["redirect"] != "index.html" {
		t.Fatalf("login redirect = %v", got)
	}

	nav = decode[map[string]any](t, b.do(http.MethodGet, "/api/navbar", ""))
	if nav["user_name"] != "Viajante" || nav["logged_out_hidden"] != true {
		t.Fatalf("navbar = %v", nav)
	}
	home := decode[map[string]map[string]any](t, b.do(http.MethodGet, "/api/home", ""))
	if home["home"]["hero_title"] != "Para onde vamos agora, Viajante?" || home["home"]["show_recomendacoes"] != true {
		t.Fatalf("home = %v", home)
	}

	expectStatus(t, b.do(http.MethodPost, "/api/logout", ""), http.StatusOK)
	home = decode[map[string]map[string]any](t, b.do(http.MethodGet, "/api/home", ""))
	if home["home"]["show_ofertas"] != true || home["navbar"]["logged_in"] != false {
		t.Fatalf("home after logout = %v", home)
	}
}

func TestThemeKeepsAuto(t *testing.T) {
	b := newEnv(t).browser(t)
	b.header.Set("Sec-CH-Prefers-Color-Scheme", `"dark"`)

	rec := b.do(http.MethodPut, "/api/theme", `{"theme":"auto"}`)
	expectStatus(t, rec, http.StatusOK)
	if rec.Header().Get("Accept-CH") != "Sec-CH-Prefers-Color-Scheme" {
		t.Fatal("missing Accept-CH")
	}
	got := decode[map[string]string](t, rec)
	if got["choice"] != "auto" || got["effective"] != "dark" || got["icon"] != "bi bi-circle-half" {
		t.Fatalf("got %v", got)
	}

	b.header.Set("Sec-CH-Prefers-Color-Scheme", "light")
	got = decode[map[string]string](t, b.do(http.MethodGet, "/api/theme", ""))
	if got["choice"] != "auto" || got["effective"] != "light" {
		t.Fatalf("after OS change: %v", got)
	}

	expectStatus(t, b.do(http.MethodPut, "/api/theme", `{"theme":"sepia"}`), http.StatusBadRequest)
}

func TestDateRangeConfig(t *testing.T) {
	b := newEnv(t).browser(t)
	got := decode[map[string]any](t, b.do(http.MethodGet, "/api/daterange", ""))
	if got["minDate"] != "14/03/2025" || got["maxDate"] != "14/03/2026" {
		t.Fatalf("got %v", got)
	}
}

func TestRegisterAndProfile(t *testing.T) {
	b := newEnv(t).browser(t)

	rec := b.do(http.MethodPost, "/api/registo", `{"firstName":"Ana","email":"nope"}`)
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	bad := decode[struct {
		WasValidated bool              `json:"was_validated"`
		Errors       map[string]string `json:"errors"`
	}](t, rec)
	if !bad.WasValidated || bad.Errors["register-email"] != wizard.MsgBadEmail ||
		bad.Errors["register-lastname"] != wizard.MsgValueMissing || bad.Errors["register-password"] == "" {
		t.Fatalf("got %+v", bad)
	}
	if _, ok := bad.Errors["register-firstname"]; ok {
		t.Fatal("first name was valid")
	}

	rec = b.do(http.MethodPost, "/api/registo", `{"firstName":" Ana ","lastName":"Silva","email":"ana@example.pt","password":"antiga1"}`)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[map[string]string](t, b.do(http.MethodGet, "/api/perfil", "")); got["firstName"] != "Ana" {
		t.Fatalf("perfil = %v", got)
	}

	rec = b.do(http.MethodPut, "/api/perfil", `{"firstName":"Ana","lastName":"Silva","currentPassword":"errada1","newPassword":"novinha","confirmPassword":"novinha"}`)
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	if !strings.Contains(rec.Body.String(), "A password atual está incorreta.") {
		t.Fatalf("body = %s", rec.Body.String())
	}

	rec = b.do(http.MethodPut, "/api/perfil", `{"firstName":"Joana","lastName":"Silva","currentPassword":"antiga1","newPassword":"novinha","confirmPassword":"novinha"}`)
	expectStatus(t, rec, http.StatusOK)
	nav := decode[map[string]map[string]any](t, rec)
	if nav["navbar"]["user_name"] != "Joana" {
		t.Fatalf("navbar = %v", nav)
	}

	// the new password is now the current one
	rec = b.do(http.MethodPut, "/api/perfil", `{"firstName":"Joana","lastName":"Silva","currentPassword":"antiga1","newPassword":"outra12","confirmPassword":"outra12"}`)
	expectStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestBookingRequiresLogin(t *testing.T) {
	b := newEnv(t).browser(t)
	rec := b.do(http.MethodPost, "/api/reserva", `{"daterange":"01/06/2025 - 05/06/2025"}`)
	expectStatus(t, rec, http.StatusSeeOther)
	if rec.Header().Get("Location") != "/login.html" {
		t.Fatalf("location = %q", rec.Header().Get("Location"))
	}
}

func TestBookingFlow(t *testing.T) {
	env := newEnv(t)
	b := env.browser(t)
	b.do(http.MethodPost, "/api/login", "")

	expectStatus(t, b.do(http.MethodGet, "/api/reserva", ""), http.StatusNotFound)
	expectStatus(t, b.do(http.MethodPost, "/api/reserva", `{"daterange":"01/01/2025 - 05/01/2025"}`), http.StatusBadRequest)

	rec := b.do(http.MethodPost, "/api/reserva", `{"daterange":"01/06/2025 - 05/06/2025","hospedes":"2","preco":"400€"}`)
	expectStatus(t, rec, http.StatusCreated)
	if v := decode[wizard.View](t, rec); v.Step != wizard.StepPersonalData || !v.Steps[0] || v.Panels["cc"].Hidden {
		t.Fatalf("start view = %+v", v)
	}

	step := decode[struct {
		Moved bool        `json:"moved"`
		View  wizard.View `json:"view"`
	}](t, b.do(http.MethodPost, "/api/reserva/seguinte", ""))
	if step.Moved || !step.View.WasValidated || step.View.Fields["firstName"].State != wizard.StateInvalid {
		t.Fatalf("empty step 0 advanced: %+v", step)
	}

	expectStatus(t, b.do(http.MethodPatch, "/api/reserva/campos", `{"firstName":"Ana","lastName":"Silva","email":"ana@example.pt"}`), http.StatusOK)
	expectStatus(t, b.do(http.MethodPatch, "/api/reserva/campos", `{"nif":"1"}`), http.StatusBadRequest)
	rec = b.do(http.MethodPost, "/api/reserva/enter", "")
	if !strings.Contains(rec.Body.String(), `"moved":true`) {
		t.Fatalf("enter on step 0: %s", rec.Body.String())
	}

	expectStatus(t, b.do(http.MethodPut, "/api/reserva/pagamento", `{"method":"crypto"}`), http.StatusBadRequest)
	rec = b.do(http.MethodPatch, "/api/reserva/campos", `{"paymentMethod":"mbway","mbway-phone":"912345678"}`)
	if v := decode[wizard.View](t, rec); v.Panels["mbway"].Hidden || !v.Fields["mbway-phone"].Required || v.Fields["cardNumber"].Required {
		t.Fatalf("mbway view = %+v", v)
	}
	step = decode[struct {
		Moved bool        `json:"moved"`
		View  wizard.View `json:"view"`
	}](t, b.do(http.MethodPost, "/api/reserva/seguinte", ""))
	if !step.Moved || step.View.Summary.Pagamento != "MB WAY" || step.View.Summary.Nome != "Ana Silva" {
		t.Fatalf("payment step: %+v", step)
	}
	if !strings.Contains(b.do(http.MethodPost, "/api/reserva/enter", "").Body.String(), `"moved":false`) {
		t.Fatal("enter on confirmation must be swallowed")
	}

	rec = b.do(http.MethodPost, "/api/reserva/submeter", "")
	expectStatus(t, rec, http.StatusAccepted)
	sub := decode[struct {
		Reserva map[string]string `json:"reserva"`
		View    wizard.View       `json:"view"`
	}](t, rec)
	if sub.Reserva["alojamento"] != "Hotel Central" || sub.Reserva["checkin"] != "01/06/2025" || sub.Reserva["preco"] != "400€" {
		t.Fatalf("reserva = %v", sub.Reserva)
	}
	if !sub.View.Submit.Disabled || sub.View.Submit.Label != wizard.BusyLabel {
		t.Fatalf("submit = %+v", sub.View.Submit)
	}
	expectStatus(t, b.do(http.MethodPost, "/api/reserva/submeter", ""), http.StatusConflict)

	select {
	case <-env.pub.got:
	case <-time.After(2 * time.Second):
		t.Fatal("reservation event not published")
	}
	if ev := env.pub.events[0]; ev.PaymentMethod != "mbway" || ev.UserName != "Viajante" || ev.Checkout != "05/06/2025" {
		t.Fatalf("event = %+v", ev)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		v := decode[wizard.View](t, b.do(http.MethodGet, "/api/reserva", ""))
		if v.Redirect == wizard.ConfirmationPage {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("redirect never appeared")
		}
		time.Sleep(5 * time.Millisecond)
	}

	conf := decode[map[string]map[string]string](t, b.do(http.MethodGet, "/api/confirmacao", ""))
	if conf["reserva"]["hospedes"] != "2" || conf["reserva"]["checkout"] != "05/06/2025" {
		t.Fatalf("confirmacao = %v", conf)
	}
	if body := b.do(http.MethodGet, "/api/confirmacao", "").Body.String(); !strings.Contains(body, `"reserva":null`) {
		t.Fatalf("second confirmation = %s", body)
	}
	expectStatus(t, b.do(http.MethodGet, "/api/reserva", ""), http.StatusNotFound)
}

func TestSubmitInvalidForm(t *testing.T) {
	b := newEnv(t).browser(t)
	b.do(http.MethodPost, "/api/login", "")
	b.do(http.MethodPost, "/api/reserva", `{"daterange":"01/06/2025 - 05/06/2025"}`)

	rec := b.do(http.MethodPost, "/api/reserva/submeter", "")
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	if v := decode[wizard.View](t, rec); !v.WasValidated || v.Submit.Disabled {
		t.Fatalf("view = %+v", v)
	}
	if body := b.do(http.MethodGet, "/api/confirmacao", "").Body.String(); !strings.Contains(body, `"reserva":null`) {
		t.Fatal("nothing should be staged")
	}

	expectStatus(t, b.do(http.MethodDelete, "/api/reserva", ""), http.StatusNoContent)
	expectStatus(t, b.do(http.MethodPost, "/api/reserva/seguinte", ""), http.StatusNotFound)
}

func TestRatingFlow(t *testing.T) {
	b := newEnv(t).browser(t)

	rec := b.do(http.MethodGet, "/api/avaliacoes/r-1", "")
	expectStatus(t, rec, http.StatusOK)
	if card := decode[map[string]any](t, rec); card["form_hidden"] != false || card["saved"] != nil {
		t.Fatalf("fresh card = %v", card)
	}

	preview := decode[struct {
		Stars []string `json:"stars"`
	}](t, b.do(http.MethodGet, "/api/avaliacoes/r-1?selecionado=2&hover=4", ""))
	if got := strings.Count(strings.Join(preview.Stars, "|"), "bi-star-fill"); got != 4 {
		t.Fatalf("hover preview = %v", preview.Stars)
	}
	preview = decode[struct {
		Stars []string `json:"stars"`
	}](t, b.do(http.MethodGet, "/api/avaliacoes/r-1?selecionado=2", ""))
	if got := strings.Count(strings.Join(preview.Stars, "|"), "bi-star-fill"); got != 2 {
		t.Fatalf("committed preview = %v", preview.Stars)
	}
	expectStatus(t, b.do(http.MethodGet, "/api/avaliacoes/r-1?hover=x", ""), http.StatusBadRequest)

	rec = b.do(http.MethodPost, "/api/avaliacoes/r-1", `{"avaliacao":0,"comentario":"Ótimo"}`)
	expectStatus(t, rec, http.StatusBadRequest)
	if got := decode[map[string]string](t, rec); got["alert"] != "Por favor, selecione uma classificação de 1 a 5 estrelas." {
		t.Fatalf("got %v", got)
	}
	rec = b.do(http.MethodPost, "/api/avaliacoes/r-1", `{"avaliacao":9,"comentario":"Ótimo"}`)
	expectStatus(t, rec, http.StatusBadRequest)
	rec = b.do(http.MethodPost, "/api/avaliacoes/r-1", `{"avaliacao":4,"comentario":"  "}`)
	expectStatus(t, rec, http.StatusBadRequest)
	if got := decode[map[string]string](t, rec); got["alert"] != "Por favor, insira um comentário." {
		t.Fatalf("got %v", got)
	}

	rec = b.do(http.MethodPost, "/api/avaliacoes/r-1", `{"avaliacao":4,"comentario":"Ótimo"}`)
	expectStatus(t, rec, http.StatusCreated)
	saved := decode[struct {
		Card struct {
			TriggerHidden bool `json:"trigger_hidden"`
			Saved         struct {
				Stars []string `json:"stars"`
			} `json:"saved"`
		} `json:"card"`
		Alert string `json:"alert"`
	}](t, rec)
	if !saved.Card.TriggerHidden || saved.Alert != "Avaliação enviada com sucesso!" {
		t.Fatalf("saved = %+v", saved)
	}
	if got := strings.Join(saved.Card.Saved.Stars, "|"); strings.Count(got, "bi-star-fill") != 4 || strings.Count(got, "bi bi-star text-secondary") != 1 {
		t.Fatalf("stars = %v", saved.Card.Saved.Stars)
	}

	expectStatus(t, b.do(http.MethodPost, "/api/avaliacoes/r-1", `{"avaliacao":2,"comentario":"Outro"}`), http.StatusConflict)
	expectStatus(t, b.do(http.MethodGet, "/api/avaliacoes/r%201", ""), http.StatusBadRequest)
}
