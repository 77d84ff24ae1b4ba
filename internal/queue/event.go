// Package queue defines the broker payloads and the consumer that records
// submitted reservations.
package queue

import (
	"fmt"
	"time"

	"github.com/iliyamo/stayin-booking/internal/model"
)

// ReservationQueue is the durable queue submitted bookings go to.
const ReservationQueue = "reserva.submetida"

// ReservationSubmittedEvent is published after a booking form passes
// full-form validation and its summary was staged for the confirmation view.
type ReservationSubmittedEvent struct {
	SessionID     string `json:"session_id"`
	UserName      string `json:"user_name"`
	Alojamento    string `json:"alojamento"`
	Checkin       string `json:"checkin"`
	Checkout      string `json:"checkout"`
	Hospedes      string `json:"hospedes"`
	Preco         string `json:"preco"`
	PaymentMethod string `json:"payment_method"`
	SubmittedAt   string `json:"submitted_at"` // RFC 3339, UTC
}

// NewReservationSubmittedEvent stamps the event with t in UTC.
func NewReservationSubmittedEvent(sid, user string, method model.PaymentMethod, s model.ReservationSummary, t time.Time) ReservationSubmittedEvent {
	return ReservationSubmittedEvent{
		SessionID:     sid,
		UserName:      user,
		Alojamento:    s.Alojamento,
		Checkin:       s.Checkin,
		Checkout:      s.Checkout,
		Hospedes:      s.Hospedes,
		Preco:         s.Preco,
		PaymentMethod: string(method),
		SubmittedAt:   t.UTC().Format(time.RFC3339),
	}
}

// LogLine renders ev as one line of logs/reservas.log.
func (ev ReservationSubmittedEvent) LogLine() string {
	return fmt.Sprintf("[%s] Reserva submetida | session=%s | user=%q | alojamento=%q | checkin=%s | checkout=%s | hospedes=%s | preco=%q | pagamento=%s\n",
		ev.SubmittedAt, ev.SessionID, ev.UserName, ev.Alojamento, ev.Checkin, ev.Checkout, ev.Hospedes, ev.Preco, ev.PaymentMethod)
}
