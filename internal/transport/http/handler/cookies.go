package handler

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// CookieWriter attaches and clears the session cookie. In production the
// cookie is Secure with SameSite=None (the browser client is served from a
// different origin); in development it is SameSite=Strict over plain HTTP.
type CookieWriter struct {
	production bool
	maxAge     time.Duration
}

func NewCookieWriter(production bool, maxAge time.Duration) *CookieWriter {
	return &CookieWriter{production: production, maxAge: maxAge}
}

func (c *CookieWriter) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.production,
		SameSite: c.sameSite(),
	})
}

// Clear expires the cookie immediately. Logout is a client-side credential
// discard; the token itself is not revoked server-side.
func (c *CookieWriter) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.production,
		SameSite: c.sameSite(),
	})
}

func (c *CookieWriter) sameSite() http.SameSite {
	if c.production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}
