package wizard

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"
)

// Card validator messages, reported as custom validity on the card fields.
const (
	MsgCardNumberLength = "O número do cartão deve ter 16 dígitos."
	MsgCardNumberDigits = "Insira apenas dígitos (0-9)."
	MsgCVCLength        = "O CVC deve ter exatamente 3 dígitos."
	MsgCVCDigits        = "O CVC deve conter apenas números."
	MsgExpiryTooEarly   = "A validade não pode ser anterior ao mês atual."
	MsgExpiryTooLate    = "A validade não pode ser superior a 5 anos a partir de agora."
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	cardDigits  = regexp.MustCompile(`^\d{16,19}$`)
	cvcDigits   = regexp.MustCompile(`^\d{3}$`)
	expiryYears = 5
)

// NormalizeCardNumber strips every whitespace run from a card number.
func NormalizeCardNumber(s string) string { return whitespace.ReplaceAllString(s, "") }

// ValidateCardNumber returns the custom validity message for a card number:
// after stripping whitespace it must be 16 to 19 digits.  The length check
// runs first and counts characters, so short input reports the length
// message even when it also contains non-digits.
func ValidateCardNumber(s string) string {
	n := NormalizeCardNumber(s)
	switch {
	case utf8.RuneCountInString(n) < 16:
		return MsgCardNumberLength
	case !cardDigits.MatchString(n):
		return MsgCardNumberDigits
	default:
		return ""
	}
}

// ValidateCVC requires exactly three numeric characters.
func ValidateCVC(s string) string {
	switch {
	case len([]rune(s)) != 3:
		return MsgCVCLength
	case !cvcDigits.MatchString(s):
		return MsgCVCDigits
	default:
		return ""
	}
}

// ExpiryBounds returns the inclusive [min, max] month range for a card
// expiry as "YYYY-MM": the current month through the same month five years on.
func ExpiryBounds(now time.Time) (first, last string) {
	first = fmt.Sprintf("%04d-%02d", now.Year(), int(now.Month()))
	last = fmt.Sprintf("%04d-%02d", now.Year()+expiryYears, int(now.Month()))
	return first, last
}

// ValidateExpiry compares a month input value against the bounds as plain
// strings, which orders correctly for zero-padded YYYY-MM.  Empty clears.
func ValidateExpiry(v string, now time.Time) string {
	if v == "" {
		return ""
	}
	first, last := ExpiryBounds(now)
	switch {
	case v < first:
		return MsgExpiryTooEarly
	case v > last:
		return MsgExpiryTooLate
	default:
		return ""
	}
}
