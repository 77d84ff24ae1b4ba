package model

// Theme is the colour scheme choice persisted under the "theme" key.  The
// raw choice is stored, so ThemeAuto survives and is re-resolved against the
// operating system preference on every load.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// ParseTheme accepts exactly the three values the theme toggle can emit.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight, ThemeDark, ThemeAuto:
		return Theme(s), true
	default:
		return "", false
	}
}
