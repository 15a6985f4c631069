package devserver

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rootmind/go-rootmind/internal/tuilog"
)

// bearerAuth rejects requests without the expected bearer token. An empty
// token disables the check.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "Missing Authorization header")
				return
			}

			scheme, provided, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				unauthorized(w, "Invalid Authorization header format")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				tuilog.Log.Info("authentication failed", "remote", r.RemoteAddr, "path", r.URL.Path)
				unauthorized(w, "Invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="rootmind"`)
	writeDetail(w, http.StatusUnauthorized, msg)
}
