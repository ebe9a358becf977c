package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brieflab/briefd/pkg/usecase"
	"github.com/brieflab/briefd/pkg/utils/logging"
)

type Server struct {
	router     *chi.Mux
	corsOrigin string
	backend    string
}

type Options func(*Server)

// WithCORSOrigin sets the allowed origin for cross-origin requests.
// Defaults to "*".
func WithCORSOrigin(origin string) Options {
	return func(s *Server) {
		if origin != "" {
			s.corsOrigin = origin
		}
	}
}

// WithBackendName labels the storage backend in the health payload
func WithBackendName(name string) Options {
	return func(s *Server) {
		s.backend = name
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:     r,
		corsOrigin: "*",
		backend:    "unknown",
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(s.corsOrigin))

	r.Route("/api/briefs", func(r chi.Router) {
		r.Post("/", createBriefHandler(uc))
		r.Get("/", listBriefsHandler(uc))
		r.Get("/{briefID}", getBriefHandler(uc))
		r.Delete("/{briefID}", deleteBriefHandler(uc))
	})

	r.Get("/health", healthHandler(uc, s.backend))

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// corsMiddleware allows cross-origin requests from the configured origin
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
