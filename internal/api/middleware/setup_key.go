package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/isep-jornadas/checkin/internal/domain"
)

const SetupKeyHeader = "X-Setup-Key"

// RequireSetupKey guards administrative routes with the shared setup secret.
// An empty configured key rejects every request.
func RequireSetupKey(key string, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get(SetupKeyHeader)
			if key == "" || given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
				writeError(w, r, domain.NewForbidden(domain.MsgNotAuthorized))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
