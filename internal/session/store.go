// Package session holds the browser-side state of the front end: a single
// auth token kept in a cookie.
package session

import (
	"time"

	"github.com/gorilla/securecookie"
)

// Store reads and writes named string values. Get reports absence
// explicitly; an empty value is never returned as present.
type Store interface {
	Get(name string) (string, bool)
	Set(name, value string, ttl time.Duration)
	Clear(name string)
}

// Days converts a lifetime in days to a ttl. Zero means a session cookie.
func Days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

const (
	TokenName = "token"
	TokenTTL  = 7 * 24 * time.Hour
)

// Session is the explicit per-request context passed into every workflow.
type Session struct {
	store Store
	codec *securecookie.SecureCookie
}

// New uses a codec keyed per process; WithCodec installs the configured one.
func New(s Store) *Session { return &Session{store: s, codec: processCodec} }

// WithCodec sets the codec that signs the flash cookie. nil keeps the
// current one.
func (s *Session) WithCodec(c *securecookie.SecureCookie) *Session {
	if c != nil {
		s.codec = c
	}
	return s
}

func (s *Session) Token() (string, bool) { return s.store.Get(TokenName) }

func (s *Session) SetToken(token string, ttl time.Duration) {
	s.store.Set(TokenName, token, ttl)
}

func (s *Session) ClearToken() { s.store.Clear(TokenName) }
