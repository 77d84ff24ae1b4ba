package wizard

import (
	"errors"
	"regexp"
	"time"

	"github.com/iliyamo/stayin-booking/internal/model"
)

// Field names, matching the element ids of the booking page.
const (
	FieldFirstName     = "firstName"
	FieldLastName      = "lastName"
	FieldEmail         = "email"
	FieldPaymentMethod = "paymentMethod"
	FieldCardNumber    = "cardNumber"
	FieldCardCVC       = "cardCVC"
	FieldCardExpiry    = "cardExpiry"
	FieldMBWayPhone    = "mbway-phone"
	FieldPayPalEmail   = "paypal-email"
)

// ErrUnknownField is returned by Input for a name the form does not have.
var ErrUnknownField = errors.New("unknown field")

// ErrUnknownPaymentMethod is returned when a radio value is not cc, mbway
// or paypal.
var ErrUnknownPaymentMethod = errors.New("unknown payment method")

var mbwayPhone = regexp.MustCompile(`^\d{9}$`)

// Form holds the controls of all three steps.  Fields keep their page order.
type Form struct {
	fields       []*Field
	byName       map[string]*Field
	method       model.PaymentMethod
	wasValidated bool
	now          func() time.Time
}

// NewForm builds the booking form with the card panel selected, which is
// how the page renders before the user touches the payment radios.
func NewForm(now func() time.Time) *Form {
	if now == nil {
		now = time.Now
	}
	f := &Form{byName: make(map[string]*Field), now: now}
	f.add(&Field{Name: FieldFirstName, Step: StepPersonalData, Kind: KindText, Required: true})
	f.add(&Field{Name: FieldLastName, Step: StepPersonalData, Kind: KindText, Required: true})
	f.add(&Field{Name: FieldEmail, Step: StepPersonalData, Kind: KindEmail, Required: true})
	f.add(&Field{Name: FieldPaymentMethod, Step: StepPayment, Kind: KindRadio, Required: true})
	f.add(&Field{Name: FieldCardNumber, Step: StepPayment, Kind: KindText, Panel: model.PaymentCard})
	f.add(&Field{Name: FieldCardCVC, Step: StepPayment, Kind: KindText, Panel: model.PaymentCard})
	f.add(&Field{Name: FieldCardExpiry, Step: StepPayment, Kind: KindMonth, Panel: model.PaymentCard})
	f.add(&Field{Name: FieldMBWayPhone, Step: StepPayment, Kind: KindTel, Panel: model.PaymentMBWay, Pattern: mbwayPhone})
	f.add(&Field{Name: FieldPayPalEmail, Step: StepPayment, Kind: KindEmail, Panel: model.PaymentPayPal})
	f.SelectPayment(model.PaymentCard)
	return f
}

func (f *Form) add(fd *Field) {
	f.fields = append(f.fields, fd)
	f.byName[fd.Name] = fd
}

// Field returns the named control.
func (f *Form) Field(name string) (*Field, bool) {
	fd, ok := f.byName[name]
	return fd, ok
}

// Fields returns every control in page order.
func (f *Form) Fields() []*Field { return f.fields }

// PaymentMethod is the checked radio, "" when none.
func (f *Form) PaymentMethod() model.PaymentMethod { return f.method }

// WasValidated reports whether a failed validation has switched the form
// into showing its error states.
func (f *Form) WasValidated() bool { return f.wasValidated }

func (f *Form) markValidated() { f.wasValidated = true }

// Input applies an input event.  The payment radio is routed through
// SelectPayment; the card fields run their live validators.
func (f *Form) Input(name, value string) error {
	if name == FieldPaymentMethod {
		m, ok := model.ParsePaymentMethod(value)
		if !ok {
			return ErrUnknownPaymentMethod
		}
		f.SelectPayment(m)
		return nil
	}
	fd, ok := f.byName[name]
	if !ok {
		return ErrUnknownField
	}
	fd.Value = value
	switch name {
	case FieldCardNumber:
		fd.SetCustomValidity(ValidateCardNumber(value))
	case FieldCardCVC:
		fd.SetCustomValidity(ValidateCVC(value))
	case FieldCardExpiry:
		fd.SetCustomValidity(ValidateExpiry(value, f.now()))
	}
	return nil
}

// SelectPayment hides every payment panel and drops required from all of
// their fields, then reveals the panel of m and makes its fields required.
// Exactly one panel is ever active.
func (f *Form) SelectPayment(m model.PaymentMethod) {
	for _, fd := range f.fields {
		if fd.Panel == "" {
			continue
		}
		fd.Hidden = true
		fd.Required = false
	}
	for _, fd := range f.fields {
		if fd.Panel != "" && fd.Panel == m {
			fd.Hidden = false
			fd.Required = true
		}
	}
	f.method = m
	f.byName[FieldPaymentMethod].Value = string(m)
}

// ValidateStep checks the required controls of one step only, marking each
// valid or invalid.  It reports whether all of them pass.
func (f *Form) ValidateStep(step Step) bool {
	return f.validate(func(fd *Field) bool { return fd.Step == step })
}

// ValidateAll applies the same rule to the required controls of every step.
func (f *Form) ValidateAll() bool {
	return f.validate(func(*Field) bool { return true })
}

func (f *Form) validate(in func(*Field) bool) bool {
	ok := true
	for _, fd := range f.fields {
		if !fd.Required || !in(fd) {
			continue
		}
		if fd.CheckValidity() {
			fd.State = StateValid
		} else {
			fd.State = StateInvalid
			ok = false
		}
	}
	return ok
}
