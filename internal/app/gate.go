package app

import "hbnb_web/internal/session"

type Mode int

const (
	Anonymous Mode = iota
	Authenticated
)

func (m Mode) String() string {
	if m == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Auth is the outcome of the gate for one page load.
type Auth struct {
	Mode  Mode
	Token string
}

func (a Auth) Authenticated() bool { return a.Mode == Authenticated }

// Gate reads the token once and decides the page mode.
func Gate(s *session.Session) Auth {
	tok, ok := s.Token()
	if !ok {
		return Auth{Mode: Anonymous}
	}
	return Auth{Mode: Authenticated, Token: tok}
}
