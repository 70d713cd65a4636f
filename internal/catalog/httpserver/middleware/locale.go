package middleware

import (
	"context"
	"net/http"
	"time"

	"finitefield.org/catalog/internal/catalog/i18n"
)

// LanguageCookie remembers the language picked through the selector.
const LanguageCookie = "lang"

const languageCookieMaxAge = 365 * 24 * time.Hour

// Languages is the part of the localizer the locale middleware needs.
type Languages interface {
	Language(code string) string
	Supports(code string) bool
	Resolve(acceptLanguage string) string
}

var _ Languages = (*i18n.Localizer)(nil)

// Locale resolves the active language from the `lang` query parameter, then
// the language cookie, then Accept-Language. An explicit query choice is
// stored in the cookie; unknown codes fall back to the default language.
func Locale(langs Languages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var lang string
			if q := r.URL.Query().Get("lang"); q != "" {
				lang = langs.Language(q)
				http.SetCookie(w, &http.Cookie{
					Name:     LanguageCookie,
					Value:    lang,
					Path:     "/",
					MaxAge:   int(languageCookieMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			} else if c, err := r.Cookie(LanguageCookie); err == nil && langs.Supports(c.Value) {
				lang = langs.Language(c.Value)
			} else {
				lang = langs.Resolve(r.Header.Get("Accept-Language"))
			}
			w.Header().Set("Content-Language", lang)
			w.Header().Add("Vary", "Cookie")
			w.Header().Add("Vary", "Accept-Language")

			ctx := context.WithValue(r.Context(), languageContextKey, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LanguageFromContext returns the language chosen by Locale, or "" when absent.
func LanguageFromContext(ctx context.Context) string {
	lang, _ := ctx.Value(languageContextKey).(string)
	return lang
}
