package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"pet-household/docs"
	"pet-household/internal/domain/persons"
	"pet-household/internal/domain/pets"
	"pet-household/internal/middleware"
	"pet-household/internal/platform/httpx"
	"pet-household/internal/platform/logger"
	"pet-household/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"gopkg.in/yaml.v3"
)

// Store is what the router needs from a storage backend. Both
// *sqldb.Store and *memory.Store implement it.
type Store interface {
	persons.Store
	Pets() pets.Repository
	Ping(ctx context.Context) error
}

type Options struct {
	// Store is required.
	Store Store

	Logger  logger.Logger
	Metrics *metrics.Metrics

	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover)
	r.Use(middleware.Metrics(opts.Metrics))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteMessage(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", healthHandler(opts.Store))
	r.Handle("/metrics", opts.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Get("/openapi.yaml", openAPIYAMLHandler)

	// Services
	personsSvc := persons.NewService(opts.Store)
	if opts.Metrics != nil {
		personsSvc.WithObserver(opts.Metrics)
	}
	petsSvc := pets.NewService(opts.Store.Pets(), personsSvc)

	// Routes
	r.Route("/persons", func(pr chi.Router) {
		pets.RegisterRoutes(pr, petsSvc)
		persons.RegisterRoutes(pr, personsSvc)
	})

	return r
}

// healthHandler answers "ok" while the database responds.
func healthHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.FromContext(r.Context()).Warn("health check failed", map[string]any{"error": err})
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// openAPIYAMLHandler serves the generated swagger document as YAML.
func openAPIYAMLHandler(w http.ResponseWriter, r *http.Request) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &spec); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	out, err := yaml.Marshal(spec)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
