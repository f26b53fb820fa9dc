package web

import (
	"net/http"

	"schema-ai-service/internal/domain/ports/repository"
	"schema-ai-service/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server is the admin API. Every mutating route sits behind the session
// middleware; /health and /metrics stay open for probes and scrapers.
type Server struct {
	queueUC usecase.QueueUseCase
	saveUC  usecase.SaveUseCase
	schemas repository.SchemaRepository
	auth    *AuthManager
	apiKey  string
	log     *zerolog.Logger
}

func NewServer(
	queueUC usecase.QueueUseCase,
	saveUC usecase.SaveUseCase,
	schemas repository.SchemaRepository,
	auth *AuthManager,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		queueUC: queueUC,
		saveUC:  saveUC,
		schemas: schemas,
		auth:    auth,
		apiKey:  apiKey,
		log:     logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/api/v1/login", s.loginHandler())
	r.Post("/api/v1/logout", s.logoutHandler())

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Post("/api/v1/enqueue", s.enqueueHandler())
		r.Post("/api/v1/queue/run", s.runQueueHandler())
		r.Get("/api/v1/queue/stats", s.statsHandler())

		r.Get("/api/v1/content/{id}/schema", s.getSchemaHandler())
		r.Put("/api/v1/content/{id}/schema", s.putSchemaHandler())
		r.Delete("/api/v1/content/{id}/schema", s.deleteSchemaHandler())
	})

	return r
}

// sessionMiddleware accepts a minted session JWT, either as a cookie or as a
// bearer header. The raw API key is only good for /api/v1/login.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
