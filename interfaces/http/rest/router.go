package rest

import (
	"net/http"

	"ideaflow-backend/application/store"
	"ideaflow-backend/infrastructure/config"
	"ideaflow-backend/interfaces/http/rest/handlers"
	"ideaflow-backend/interfaces/http/rest/middleware"
	"ideaflow-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	stores    *store.Manager
	validator *auth.JWTValidator
	cfg       *config.Config
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	stores *store.Manager,
	validator *auth.JWTValidator,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		stores:    stores,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.cfg.IPRateLimit, rt.cfg.UserRateLimit, rt.logger))

		ideaHandler := handlers.NewIdeaHandler(rt.stores, rt.logger)
		r.Route("/ideas", func(r chi.Router) {
			r.Get("/", ideaHandler.ListIdeas)
			r.Post("/", ideaHandler.CreateIdea)
			r.Post("/refresh", ideaHandler.RefreshIdeas)
			r.Get("/{ideaID}", ideaHandler.GetIdea)
			r.Put("/{ideaID}", ideaHandler.UpdateIdea)
			r.Delete("/{ideaID}", ideaHandler.DeleteIdea)
			r.Patch("/{ideaID}/status", ideaHandler.UpdateStatus)
			r.Patch("/{ideaID}/priority", ideaHandler.UpdatePriority)
		})

		tagHandler := handlers.NewTagHandler(rt.stores, rt.logger)
		r.Get("/tags", tagHandler.ListTags)

		sessionHandler := handlers.NewSessionHandler(rt.stores, rt.logger)
		r.Delete("/session", sessionHandler.ClearSession)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
