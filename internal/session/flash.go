package session

import (
	"unicode/utf8"

	"github.com/gorilla/securecookie"
)

const (
	FlashName     = "flash"
	maxDraftRunes = 1000
)

var processCodec = NewCodec(securecookie.GenerateRandomKey(32))

// NewCodec returns a signing codec for the flash cookie. The flash carries
// no secrets, so it is signed but not encrypted.
func NewCodec(hashKey []byte) *securecookie.SecureCookie {
	c := securecookie.New(hashKey, nil)
	c.SetSerializer(securecookie.JSONEncoder{})
	return c
}

// Flash is a one-shot message carried across a redirect, optionally with
// the form values of a rejected submission.
type Flash struct {
	Kind   string `json:"k"`
	Text   string `json:"t"`
	Rating string `json:"r,omitempty"`
	Draft  string `json:"d,omitempty"`
}

// SetFlash stores f as a signed session cookie. A draft too long for one
// cookie is dropped; the message is kept.
func (s *Session) SetFlash(f Flash) {
	if utf8.RuneCountInString(f.Draft) > maxDraftRunes {
		f.Draft = string([]rune(f.Draft)[:maxDraftRunes])
	}
	v, err := s.codec.Encode(FlashName, f)
	if err != nil && f.Draft != "" {
		f.Draft = ""
		v, err = s.codec.Encode(FlashName, f)
	}
	if err != nil {
		return
	}
	s.store.Set(FlashName, v, 0)
}

// TakeFlash returns the pending flash, if any, and clears it. A cookie that
// fails verification is discarded.
func (s *Session) TakeFlash() (Flash, bool) {
	v, ok := s.store.Get(FlashName)
	if !ok {
		return Flash{}, false
	}
	s.store.Clear(FlashName)
	var f Flash
	if err := s.codec.Decode(FlashName, v, &f); err != nil || f.Text == "" {
		return Flash{}, false
	}
	return f, true
}
