package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"stackit-backend/infrastructure/di"
	"stackit-backend/interfaces/http/rest/handlers"
	"stackit-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	c := rt.container
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if c.Config.EnableMetrics {
		router.Use(middleware.Metrics(c.Metrics))
	}
	if c.Config.EnableTracing {
		router.Use(c.Tracer.Middleware)
	}

	if c.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.stackit.dev"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(c.JWTValidator, rt.logger))

		// Content analysis
		r.Route("/analysis", func(r chi.Router) {
			analysisHandler := handlers.NewAnalysisHandler(c.SimilarityService, rt.logger)
			r.Post("/similar-questions", analysisHandler.FindSimilarQuestions)
			r.Post("/tags/suggest", analysisHandler.SuggestTags)
			r.Post("/summarize", analysisHandler.Summarize)
			r.Post("/quality", analysisHandler.ScoreQuality)
		})

		// Duplicate detection and merge planning
		r.Route("/duplicates", func(r chi.Router) {
			duplicateHandler := handlers.NewDuplicateHandler(c.DuplicateService, c.Tracer, rt.logger)
			r.Post("/detect", duplicateHandler.DetectDuplicates)
			r.Post("/batch", duplicateHandler.BatchDetect)
			r.Post("/validate-merge", duplicateHandler.ValidateMerge)
			r.Post("/merge-plan", duplicateHandler.PlanMerge)
		})

		// Moderation, restricted to moderators
		r.Route("/moderation", func(r chi.Router) {
			r.Use(middleware.RequireRole(rt.logger, "moderator", "admin"))
			moderationHandler := handlers.NewModerationHandler(c.ModerationService, c.Tracer, rt.logger)
			r.Post("/analyze", moderationHandler.AnalyzeContent)
			r.Post("/batch", moderationHandler.BatchAnalyze)
			r.Put("/content/{contentID}/visibility", moderationHandler.SetVisibility)
			r.Post("/history/insights", moderationHandler.FlaggingInsights)
		})

		// Topic extraction
		r.Route("/topics", func(r chi.Router) {
			topicHandler := handlers.NewTopicHandler(c.TopicService, c.ContentStore, rt.logger)
			r.Post("/extract", topicHandler.ExtractTopics)
			r.Post("/recommend", topicHandler.RecommendTopics)
		})

		// Engagement analytics
		r.Route("/engagement", func(r chi.Router) {
			engagementHandler := handlers.NewEngagementHandler(c.EngagementService, rt.logger)
			r.Post("/analyze", engagementHandler.AnalyzeEngagement)
		})

		// Personalization
		recommendationHandler := handlers.NewRecommendationHandler(c.RecommendationService, rt.logger)
		r.Get("/recommendations/{userID}", recommendationHandler.GetRecommendations)
		r.Get("/users/{userID}/expertise", recommendationHandler.GetExpertise)
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
