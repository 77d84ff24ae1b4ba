package presenter

import (
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/stayin-booking/internal/model"
)

// RangeSeparator joins the two dates of the picker's input value.
const RangeSeparator = " - "

var (
	ErrBadRange       = errors.New("date range must be DD/MM/YYYY - DD/MM/YYYY")
	ErrBeforeMinDate  = errors.New("check-in is before today")
	ErrAfterMaxDate   = errors.New("check-out is more than one year ahead")
	ErrCheckoutBefore = errors.New("check-out is before check-in")
)

// Locale is the Portuguese daterangepicker locale.
type Locale struct {
	Format      string   `json:"format"`
	Separator   string   `json:"separator"`
	ApplyLabel  string   `json:"applyLabel"`
	CancelLabel string   `json:"cancelLabel"`
	FromLabel   string   `json:"fromLabel"`
	ToLabel     string   `json:"toLabel"`
	DaysOfWeek  []string `json:"daysOfWeek"`
	MonthNames  []string `json:"monthNames"`
	FirstDay    int      `json:"firstDay"`
}

// DateRange is the picker configuration.  MinDate and MaxDate are in the
// locale format.
type DateRange struct {
	Opens     string `json:"opens"`
	AutoApply bool   `json:"autoApply"`
	MinDate   string `json:"minDate"`
	MaxDate   string `json:"maxDate"`
	Locale    Locale `json:"locale"`

	first, last time.Time
}

// NewDateRange configures the picker for now: the earliest date is the
// start of today, the latest one year from today.
func NewDateRange(now time.Time) DateRange {
	first := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	last := first.AddDate(1, 0, 0)
	return DateRange{
		Opens:     "center",
		AutoApply: true,
		MinDate:   first.Format(model.DayLayout),
		MaxDate:   last.Format(model.DayLayout),
		Locale: Locale{
			Format:      "DD/MM/YYYY",
			Separator:   RangeSeparator,
			ApplyLabel:  "Aplicar",
			CancelLabel: "Cancelar",
			FromLabel:   "De",
			ToLabel:     "Até",
			DaysOfWeek:  []string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"},
			MonthNames: []string{
				"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
				"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
			},
			FirstDay: 1,
		},
		first: first,
		last:  last,
	}
}

// Parse splits a picker value into check-in and check-out and checks both
// against the configured bounds.  Same-day ranges are allowed.
func (d DateRange) Parse(v string) (checkin, checkout time.Time, err error) {
	from, to, ok := strings.Cut(strings.TrimSpace(v), RangeSeparator)
	if !ok {
		return time.Time{}, time.Time{}, ErrBadRange
	}
	loc := d.first.Location()
	if checkin, err = time.ParseInLocation(model.DayLayout, strings.TrimSpace(from), loc); err != nil {
		return time.Time{}, time.Time{}, ErrBadRange
	}
	if checkout, err = time.ParseInLocation(model.DayLayout, strings.TrimSpace(to), loc); err != nil {
		return time.Time{}, time.Time{}, ErrBadRange
	}
	switch {
	case checkin.Before(d.first):
		return time.Time{}, time.Time{}, ErrBeforeMinDate
	case checkout.Before(checkin):
		return time.Time{}, time.Time{}, ErrCheckoutBefore
	case checkout.After(d.last):
		return time.Time{}, time.Time{}, ErrAfterMaxDate
	}
	return checkin, checkout, nil
}
