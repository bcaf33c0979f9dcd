package middleware

import (
	"context"
	"net/http"

	"github.com/isep-jornadas/checkin/internal/domain"
	"github.com/isep-jornadas/checkin/internal/service"
)

type contextKey string

const (
	CompanyKey contextKey = "company"
)

// ErrorWriter renders an error response; handlers.WriteError satisfies it
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// CompanyAuth requires a valid bearer token for an active company and stores
// the company in the request context.
func CompanyAuth(authService *service.AuthService, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			company, err := authService.AuthenticateBearer(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), CompanyKey, company)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetCompany(ctx context.Context) (*domain.Company, bool) {
	company, ok := ctx.Value(CompanyKey).(*domain.Company)
	return company, ok && company != nil
}
