package main

import (
	"net/http"
	"strings"

	"github.com/Simplici0/comparativas/internal/backend"
)

const bearerPrefix = "Bearer "

// tokenMiddleware forwards the caller's JWT to the backend client. The token
// is read from the Authorization header or, failing that, from the session
// cookie. It is not verified here; the backend owns authentication.
func tokenMiddleware(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := requestToken(r, cookieName); token != "" {
				r = r.WithContext(backend.WithToken(r.Context(), token))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestToken(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	if cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}
