package model

// PaymentMethod identifies one of the three mutually exclusive payment
// field-sets of the booking form.  The zero value means no radio is checked.
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "cc"
	PaymentMBWay  PaymentMethod = "mbway"
	PaymentPayPal PaymentMethod = "paypal"
)

// PaymentMethods lists the methods in the order the radios appear.
var PaymentMethods = []PaymentMethod{PaymentCard, PaymentMBWay, PaymentPayPal}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentCard, PaymentMBWay, PaymentPayPal:
		return PaymentMethod(s), true
	default:
		return "", false
	}
}

// Label is the radio's value attribute, shown on the confirmation step.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCard:
		return "Cartão de Crédito"
	case PaymentMBWay:
		return "MB WAY"
	case PaymentPayPal:
		return "PayPal"
	default:
		return "Não selecionado"
	}
}
