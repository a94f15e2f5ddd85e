package session

import (
	"net/http"
	"time"
)

// CookieStore is a Store backed by the cookies of one HTTP exchange.
// Writes are sent as Set-Cookie headers and are also visible to later Gets
// in the same request.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
	now    func() time.Time

	written map[string]string
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{w: w, r: r, secure: secure, now: time.Now, written: map[string]string{}}
}

func (c *CookieStore) Get(name string) (string, bool) {
	if v, ok := c.written[name]; ok {
		return v, v != ""
	}
	ck, err := c.r.Cookie(name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (c *CookieStore) Set(name, value string, ttl time.Duration) {
	ck := c.base(name, value)
	if ttl > 0 {
		ck.Expires = c.now().Add(ttl).UTC()
		ck.MaxAge = int(ttl.Seconds())
	}
	c.written[name] = value
	http.SetCookie(c.w, ck)
}

func (c *CookieStore) Clear(name string) {
	ck := c.base(name, "")
	ck.Expires = time.Unix(0, 0).UTC()
	ck.MaxAge = -1
	c.written[name] = ""
	http.SetCookie(c.w, ck)
}

func (c *CookieStore) base(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
