package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"
)

const (
	sessionCookie = "auth_token"
	langCookie    = "lang"
	flashCookie   = "flash"
)

type cookies struct {
	secure bool
}

func (c cookies) setSession(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func (c cookies) clearSession(w http.ResponseWriter) {
	c.clear(w, sessionCookie)
}

func (c cookies) setLang(w http.ResponseWriter, lang string) {
	http.SetCookie(w, &http.Cookie{
		Name:     langCookie,
		Value:    lang,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   365 * 24 * 60 * 60,
	})
}

// setFlash stores a one-shot message shown on the next page.
func (c cookies) setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c cookies) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Flash moves a pending flash message from its cookie into the request context.
func (c cookies) Flash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie(flashCookie); err == nil {
			if msg, err := base64.RawURLEncoding.DecodeString(ck.Value); err == nil && len(msg) > 0 {
				r = r.WithContext(context.WithValue(r.Context(), flashContextKey, string(msg)))
			}
			c.clear(w, flashCookie)
		}
		next.ServeHTTP(w, r)
	})
}

// FlashFromContext returns the flash message for this request, if any.
func FlashFromContext(ctx context.Context) string {
	msg, _ := ctx.Value(flashContextKey).(string)
	return msg
}
