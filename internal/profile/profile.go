// Package profile validates the "Minha Conta" form.
package profile

import "strings"

// Field names of the profile form.
const (
	FieldFirstName       = "profile-firstname"
	FieldLastName        = "profile-lastname"
	FieldCurrentPassword = "current-password"
	FieldNewPassword     = "new-password"
	FieldConfirmPassword = "confirm-password"
)

// Password feedback messages.
const (
	MsgCurrentMissing = "Por favor, insira a password atual."
	MsgNewMissing     = "Por favor, insira a nova password."
	MsgSameAsCurrent  = "A nova password não pode ser igual à atual."
	MsgTooShort       = "A nova password deve ter pelo menos 6 caracteres."
	MsgConfirmMissing = "Por favor, confirme a nova password."
	MsgMismatch       = "As passwords não coincidem. Tente novamente."
	MsgWrongCurrent   = "A password atual está incorreta."
)

// MinPasswordLength is the shortest accepted new password.
const MinPasswordLength = 6

// Form is a submitted profile form.
type Form struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// FieldError marks a field invalid.  Message may be empty: the name fields
// carry their feedback text in the page.
type FieldError struct {
	Message string `json:"message,omitempty"`
}

// Result of Validate.  Name and NewPassword are trimmed and only meaningful
// when Valid.
type Result struct {
	Valid          bool                  `json:"valid"`
	Errors         map[string]FieldError `json:"errors,omitempty"`
	Name           string                `json:"-"`
	NewPassword    string                `json:"-"`
	PasswordChange bool                  `json:"-"`
}

// PasswordChecker verifies a password against a stored hash.
type PasswordChecker interface {
	Matches(hash, plain string) bool
}

// Validate checks f.  The password rules run only when one of the three
// password fields is filled; later rules overwrite the message of a field
// an earlier rule already flagged.  When storedHash is set the current
// password must match it, checked only once every other rule passes.
func Validate(f Form, storedHash string, pw PasswordChecker) Result {
	r := Result{Errors: map[string]FieldError{}}
	first := strings.TrimSpace(f.FirstName)
	if first == "" {
		r.Errors[FieldFirstName] = FieldError{}
	}
	if strings.TrimSpace(f.LastName) == "" {
		r.Errors[FieldLastName] = FieldError{}
	}

	cur := strings.TrimSpace(f.CurrentPassword)
	next := strings.TrimSpace(f.NewPassword)
	confirm := strings.TrimSpace(f.ConfirmPassword)
	change := cur != "" || next != "" || confirm != ""

	if change {
		if cur == "" {
			r.Errors[FieldCurrentPassword] = FieldError{MsgCurrentMissing}
		}
		if cur != "" && next == "" {
			r.Errors[FieldNewPassword] = FieldError{MsgNewMissing}
		}
		if next != "" && cur == next {
			r.Errors[FieldNewPassword] = FieldError{MsgSameAsCurrent}
		}
		if n := len([]rune(next)); n > 0 && n < MinPasswordLength {
			r.Errors[FieldNewPassword] = FieldError{MsgTooShort}
		}
		if (next != "" || cur != "") && confirm == "" {
			r.Errors[FieldConfirmPassword] = FieldError{MsgConfirmMissing}
		}
		if next != "" && confirm != "" && next != confirm {
			r.Errors[FieldConfirmPassword] = FieldError{MsgMismatch}
		}
		if len(r.Errors) == 0 && storedHash != "" && (pw == nil || !pw.Matches(storedHash, cur)) {
			r.Errors[FieldCurrentPassword] = FieldError{MsgWrongCurrent}
		}
	}

	if len(r.Errors) > 0 {
		return r
	}
	r.Valid = true
	r.Errors = nil
	r.Name = first
	if change {
		r.PasswordChange = true
		r.NewPassword = next
	}
	return r
}
