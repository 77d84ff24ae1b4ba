package wizard

import (
	"testing"
	"time"
)

func TestValidateCardNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4111 1111 1111 1111", ""},
		{"4111111111111111111", ""},
		{"123", MsgCardNumberLength},
		{"4111 1111 1111 111", MsgCardNumberLength},
		{"1234-5678-9012-3456", MsgCardNumberDigits},
		{"41111111111111111111", MsgCardNumberDigits},
		{"", MsgCardNumberLength},
		{"éééééééé", MsgCardNumberLength},
		{"éééééééééééééééé", MsgCardNumberDigits},
	}
	for _, tt := range tests {
		if got := ValidateCardNumber(tt.in); got != tt.want {
			t.Errorf("ValidateCardNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCardNumber(t *testing.T) {
	if got := NormalizeCardNumber(" 4111\t1111 1111  1111 "); got != "4111111111111111" {
		t.Fatalf("got %q", got)
	}
}

func TestValidateCVC(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12", MsgCVCLength},
		{"1234", MsgCVCLength},
		{"12a", MsgCVCDigits},
		{"123", ""},
	}
	for _, tt := range tests {
		if got := ValidateCVC(tt.in); got != tt.want {
			t.Errorf("ValidateCVC(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateExpiry(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want string
	}{
		{"2025-02", MsgExpiryTooEarly},
		{"2024-12", MsgExpiryTooEarly},
		{"2025-03", ""},
		{"2028-06", ""},
		{"2030-03", ""},
		{"2030-04", MsgExpiryTooLate},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ValidateExpiry(tt.in, now); got != tt.want {
			t.Errorf("ValidateExpiry(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpiryBounds(t *testing.T) {
	first, last := ExpiryBounds(time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC))
	if first != "2025-11" || last != "2030-11" {
		t.Fatalf("got [%s, %s]", first, last)
	}
}
