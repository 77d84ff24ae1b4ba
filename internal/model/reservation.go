package model

import "time"

// DefaultAlojamento is used when the booking page does not name a property.
const DefaultAlojamento = "Hotel Central"

// ReservationSummary describes a completed booking.  It is staged in the
// Session Store under "reservaDetalhes" between the booking form and the
// confirmation view, which reads it once and deletes it.  All fields hold
// the text displayed on the booking page, not parsed values.
type ReservationSummary struct {
	Alojamento string `json:"alojamento"`
	Checkin    string `json:"checkin"`
	Checkout   string `json:"checkout"`
	Hospedes   string `json:"hospedes"`
	Preco      string `json:"preco"`
}

// Stay is the on-screen summary of the selected stay that the booking page
// shows next to the wizard ("resumo-*" fields).
type Stay struct {
	Alojamento string
	Checkin    time.Time
	Checkout   time.Time
	Hospedes   string
	Preco      string
}

// Summary renders the stay the way the page displays it, dates as DD/MM/YYYY.
func (s Stay) Summary() ReservationSummary {
	alojamento := s.Alojamento
	if alojamento == "" {
		alojamento = DefaultAlojamento
	}
	return ReservationSummary{
		Alojamento: alojamento,
		Checkin:    formatDay(s.Checkin),
		Checkout:   formatDay(s.Checkout),
		Hospedes:   s.Hospedes,
		Preco:      s.Preco,
	}
}

// DayLayout is the DD/MM/YYYY format used by the date-range picker.
const DayLayout = "02/01/2006"

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DayLayout)
}
