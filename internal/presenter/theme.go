package presenter

import (
	"strings"

	"github.com/iliyamo/stayin-booking/internal/model"
)

// PreferenceHeader carries the OS colour scheme as a client hint.
const PreferenceHeader = "Sec-CH-Prefers-Color-Scheme"

// Icons of the theme toggle.
const (
	IconDark  = "bi bi-moon-stars-fill"
	IconLight = "bi bi-sun-fill"
	IconAuto  = "bi bi-circle-half"
)

// ThemeView is what the page applies: the raw choice drives the toggle
// icon, the effective theme goes into data-bs-theme.
type ThemeView struct {
	Choice    model.Theme `json:"choice"`
	Effective model.Theme `json:"effective"`
	Icon      string      `json:"icon"`
}

// ParsePreference reads the client hint value, quoted or not.  Anything
// other than light or dark is reported as unknown ("").
func ParsePreference(h string) model.Theme {
	switch model.Theme(strings.Trim(strings.TrimSpace(h), `"`)) {
	case model.ThemeDark:
		return model.ThemeDark
	case model.ThemeLight:
		return model.ThemeLight
	default:
		return ""
	}
}

// ResolveTheme returns the theme to apply.  An explicit light or dark choice
// wins; auto, unset and unrecognised values follow the OS preference, and
// light when that is unknown.
func ResolveTheme(stored string, os model.Theme) model.Theme {
	switch t, _ := model.ParseTheme(stored); t {
	case model.ThemeLight, model.ThemeDark:
		return t
	}
	if os == model.ThemeDark {
		return model.ThemeDark
	}
	return model.ThemeLight
}

// ProjectTheme builds the view for a raw stored value.  With nothing stored
// the toggle shows auto.
func ProjectTheme(stored string, os model.Theme) ThemeView {
	choice, ok := model.ParseTheme(stored)
	if !ok {
		choice = model.ThemeAuto
	}
	icon := IconAuto
	switch choice {
	case model.ThemeDark:
		icon = IconDark
	case model.ThemeLight:
		icon = IconLight
	}
	return ThemeView{Choice: choice, Effective: ResolveTheme(stored, os), Icon: icon}
}
