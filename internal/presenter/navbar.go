package presenter

import "github.com/iliyamo/stayin-booking/internal/repository"

// Fallback names used when userName is unset.
const (
	NavbarFallbackName = "Utilizador"
	GreetingFallback   = "Viajante"
)

// HiddenClass is added to elements that must not show.
const HiddenClass = "d-none"

// Navbar is the projection of a session onto the logged-in and logged-out
// navbar items.  Exactly one of the two groups is hidden.
type Navbar struct {
	LoggedIn        bool   `json:"logged_in"`
	LoggedInHidden  bool   `json:"logged_in_hidden"`
	LoggedOutHidden bool   `json:"logged_out_hidden"`
	UserName        string `json:"user_name,omitempty"`
}

// ProjectNavbar is idempotent and reads nothing but s.
func ProjectNavbar(s repository.Session) Navbar {
	if !s.IsLoggedIn {
		return Navbar{LoggedInHidden: true}
	}
	name := s.UserName
	if name == "" {
		name = NavbarFallbackName
	}
	return Navbar{LoggedIn: true, LoggedOutHidden: true, UserName: name}
}

// Home is the homepage personalisation.  Logged-out visitors get the
// static hero and the offers section.
type Home struct {
	HeroTitle         string `json:"hero_title,omitempty"`
	HeroSubtitle      string `json:"hero_subtitle,omitempty"`
	ShowOfertas       bool   `json:"show_ofertas"`
	ShowRecomendacoes bool   `json:"show_recomendacoes"`
}

const heroSubtitle = "As suas próximas aventuras começam aqui. Inspire-se nas nossas recomendações."

func ProjectHome(s repository.Session) Home {
	if !s.IsLoggedIn {
		return Home{ShowOfertas: true}
	}
	name := s.UserName
	if name == "" {
		name = GreetingFallback
	}
	return Home{
		HeroTitle:         "Para onde vamos agora, " + name + "?",
		HeroSubtitle:      heroSubtitle,
		ShowRecomendacoes: true,
	}
}
