package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/config"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/database"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/handlers"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/middleware"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/repository"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/router"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/services"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/worker"
	"github.com/naveensalgaonker/youtubeVideoHelper/migrations"
)

func main() {
	log.Println("🚀 Starting YouTube Video Helper...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, migrations.Files); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	videoRepo := repository.NewVideoRepo(pool)
	transcriptRepo := repository.NewTranscriptRepo(pool)
	summaryRepo := repository.NewSummaryRepo(pool)

	if err := userRepo.EnsureAdmin(context.Background()); err != nil {
		log.Fatalf("✗ Admin bootstrap failed: %v", err)
	}

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	youtubeService := services.NewYouTubeService(cfg.PreferredLanguages)
	summarizerFactory := services.NewSummarizerFactory(cfg, userRepo)
	defer summarizerFactory.Close()
	authService := services.NewAuthService(userRepo, redisClient, jwtAuth)
	userService := services.NewUserService(userRepo)
	videoService := services.NewVideoService(videoRepo)

	// ──── Step 5: Start Job Worker ────
	processor := worker.NewProcessor(youtubeService, summarizerFactory, videoRepo, transcriptRepo, summaryRepo)
	coordinator := worker.NewCoordinator(processor, time.Duration(cfg.VideoDelaySeconds)*time.Second)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go coordinator.Run(workerCtx)
	log.Println("✓ Job worker started")

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	jobHandler := handlers.NewJobHandler(coordinator, videoRepo, youtubeService)
	videoHandler := handlers.NewVideoHandler(videoService)
	exportHandler := handlers.NewExportHandler(videoService)
	userHandler := handlers.NewUserHandler(userService, authService)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		redisClient,
		authHandler,
		jobHandler,
		videoHandler,
		exportHandler,
		userHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		stopWorker()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ YouTube Video Helper ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
