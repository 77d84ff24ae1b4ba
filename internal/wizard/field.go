package wizard

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/stayin-booking/internal/model"
)

// Kind mirrors the input type of a form control; it decides which built-in
// constraint applies on top of required and custom validity.
type Kind string

const (
	KindText  Kind = "text"
	KindEmail Kind = "email"
	KindTel   Kind = "tel"
	KindMonth Kind = "month"
	KindRadio Kind = "radio"
)

// State is the visual validity mark of a field (is-valid / is-invalid).
type State string

const (
	StateNone    State = ""
	StateValid   State = "valid"
	StateInvalid State = "invalid"
)

// Built-in messages reported when no custom validity message is set.
const (
	MsgValueMissing = "Por favor, preencha este campo."
	MsgBadEmail     = "Insira um endereço de email válido."
	MsgBadPattern   = "Use o formato pedido."
)

var validate = validator.New()

// Field is one control of the booking form.
type Field struct {
	Name     string
	Step     Step
	Kind     Kind
	Panel    model.PaymentMethod // payment panel owning the field, "" for none
	Required bool
	Hidden   bool
	Pattern  *regexp.Regexp

	Value          string
	CustomValidity string
	State          State
}

// SetCustomValidity marks the field invalid with msg; "" clears it.
func (f *Field) SetCustomValidity(msg string) { f.CustomValidity = msg }

// ValidationMessage returns why CheckValidity fails, or "" when it passes.
// Custom validity wins over the built-in constraints, and an empty optional
// field passes everything but custom validity.
func (f *Field) ValidationMessage() string {
	if f.CustomValidity != "" {
		return f.CustomValidity
	}
	v := f.Value
	if f.Kind == KindEmail {
		v = strings.TrimSpace(v)
	}
	if v == "" {
		if f.Required {
			return MsgValueMissing
		}
		return ""
	}
	switch f.Kind {
	case KindEmail:
		if validate.Var(v, "email") != nil {
			return MsgBadEmail
		}
	case KindTel:
		if f.Pattern != nil && !f.Pattern.MatchString(v) {
			return MsgBadPattern
		}
	}
	return ""
}

// CheckValidity is the platform constraint check for a single control.
func (f *Field) CheckValidity() bool { return f.ValidationMessage() == "" }
