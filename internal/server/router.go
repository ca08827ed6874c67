package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	relaymiddleware "github.com/taskrelay/taskrelay/internal/middleware"
	"github.com/taskrelay/taskrelay/internal/services/assignment"
	"github.com/taskrelay/taskrelay/internal/services/iam"
)

// RouterOptions controls the construction of the HTTP router.
type RouterOptions struct {
	IAMService        *iam.Service
	AssignmentService *assignment.Service
	Authenticator     *iam.Authenticator
	CORSOptions       *cors.Options
	HealthHandler     http.HandlerFunc
}

// DefaultCORSOptions returns the shared development CORS policy.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// NewRouter assembles a chi.Router with shared middleware, CORS policy, and
// the service handlers mounted. Registration and the health probe are
// reachable without credentials; everything else sits behind basic auth.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	handlers := NewRelayHandlers(opts.IAMService, opts.AssignmentService)

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	r.Get("/health", healthHandler)
	r.Post("/register", handlers.Register)

	r.Group(func(r chi.Router) {
		r.Use(relaymiddleware.BasicAuth(opts.Authenticator))

		r.Post("/upload", handlers.Upload)
		r.Get("/admins", handlers.ListAdmins)
		r.Get("/assignments", handlers.ListAssignments)
		r.Post("/assignments/{id}/accept", handlers.AcceptAssignment)
		r.Post("/assignments/{id}/reject", handlers.RejectAssignment)
	})

	return r
}

// NewH2CHandler wraps the shared router with an h2c server to provide
// HTTP/2 over cleartext for clients that negotiate it.
func NewH2CHandler(opts RouterOptions) http.Handler {
	return h2c.NewHandler(NewRouter(opts), &http2.Server{})
}
