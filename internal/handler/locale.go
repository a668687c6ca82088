package handler

import (
	"net/http"

	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/i18n"
)

// Locale picks the request language. A supported ?lang= value wins and is
// remembered in the lang cookie; otherwise the configured default applies.
func (c cookies) Locale(def domain.Language, next http.Handler) http.Handler {
	if !def.Valid() {
		def = domain.LanguageEnglish
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := def
		if q := domain.Language(r.URL.Query().Get("lang")); q.Valid() {
			lang = q
			c.setLang(w, string(q))
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLanguage(r.Context(), lang)))
	})
}

// sessionLanguage is the language remembered for this browser, English when
// none was chosen.
func sessionLanguage(r *http.Request) domain.Language {
	if ck, err := r.Cookie(langCookie); err == nil {
		if l := domain.Language(ck.Value); l.Valid() {
			return l
		}
	}
	return domain.LanguageEnglish
}
