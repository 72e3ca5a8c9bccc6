package middleware

import (
	"net/http"

	"github.com/jobzee/jobzee/i18n"
)

// Prefs resolves the response language (query > cookie > Accept-Language)
// and stores it in the request context. A ?lang= value is remembered in a
// cookie for 30 days.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie("lang"); err == nil {
			lang = i18n.Normalize(c.Value)
		}
		if q := i18n.Normalize(r.URL.Query().Get("lang")); q != "" {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 30,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		if lang == "" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		w.Header().Set("Content-Language", lang)
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}

// LangFrom returns the language chosen by Prefs.
func LangFrom(r *http.Request) string {
	return i18n.LangFromContext(r.Context())
}
