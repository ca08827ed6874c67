package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/taskrelay/taskrelay/internal/services/iam"
)

// BasicAuth is the authentication middleware for all guarded routes.
//
// It extracts HTTP Basic credentials, verifies them through the
// authenticator, and stores the resulting Principal on the request context.
// Missing credentials, unknown usernames, and wrong passwords all produce
// the same 401 so responses do not leak which usernames are registered.
func BasicAuth(authenticator *iam.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w)
				return
			}

			principal, err := authenticator.Authenticate(r.Context(), username, password)
			if err != nil {
				if errors.Is(err, iam.ErrInvalidCredentials) {
					log.Printf("WARNING: invalid authentication attempt for user: %s", username)
					unauthorized(w)
					return
				}
				log.Printf("ERROR: authentication for %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			ctx := iam.SetPrincipalContext(r.Context(), *principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="taskrelay"`)
	http.Error(w, "invalid username or password", http.StatusUnauthorized)
}
