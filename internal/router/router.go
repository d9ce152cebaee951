package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/handlers"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	redisClient *redis.Client,
	authHandler *handlers.AuthHandler,
	jobHandler *handlers.JobHandler,
	videoHandler *handlers.VideoHandler,
	exportHandler *handlers.ExportHandler,
	userHandler *handlers.UserHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(redisClient, 10, time.Minute, "auth")

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Job Routes ────
		r.Route("/jobs", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", jobHandler.Submit)
			r.Get("/{id}", jobHandler.GetJob)
		})

		// ──── Video Routes ────
		r.Route("/videos", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", videoHandler.List)
			r.Get("/stats", videoHandler.Stats)
			r.Get("/categories", videoHandler.Categories)
			r.Get("/{id}", videoHandler.Get)

			r.Post("/bulk/transcripts", jobHandler.BulkTranscripts)
			r.Post("/bulk/summaries", jobHandler.BulkSummaries)
			r.Post("/bulk/delete", videoHandler.BulkDelete)

			r.Post("/{id}/retry/transcript", jobHandler.RetryTranscript)
			r.Post("/{id}/retry/summary", jobHandler.RetrySummary)

			r.Get("/{id}/captions", jobHandler.ListCaptions)
			r.Post("/{id}/transcript/{language}", jobHandler.FetchTranscriptLanguage)
		})

		// ──── Export ────
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/export", exportHandler.Export)
		})

		// ──── User & Settings Routes ────
		r.Route("/user", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.GetMe)
			r.Put("/password", userHandler.ChangePassword)
			r.Get("/settings", userHandler.GetSettings)
			r.Put("/settings", userHandler.UpdateSettings)
		})
	})

	return r
}
