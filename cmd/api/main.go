package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgeworks/vertivid/internal/api"
	"github.com/forgeworks/vertivid/internal/config"
	"github.com/forgeworks/vertivid/internal/db"
	"github.com/forgeworks/vertivid/internal/services"
	"github.com/forgeworks/vertivid/internal/storage"
	"github.com/forgeworks/vertivid/internal/worker"
)

func main() {
	log.Println("Starting Vertivid API...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database — optional, history records only
	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		migrateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := database.Migrate(migrateCtx); err != nil {
			cancel()
			log.Fatalf("Failed to migrate database: %v", err)
		}
		cancel()
		log.Println("Connected to database")
	} else {
		log.Println("No DATABASE_URL set — generation history disabled")
	}

	// Initialize storage
	store, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Printf("Initialized %s storage", cfg.StorageProvider)

	// Initialize pipeline services
	fetcher := services.NewFetcherService()
	ffmpeg := services.NewFFmpegService(cfg.FFmpegPath, cfg.FFprobePath, cfg.TempDir)
	generator := services.NewGenerator(fetcher, ffmpeg)

	// Create worker
	w := worker.New(generator, store, database, worker.Options{
		Concurrency:   cfg.MaxConcurrentJobs,
		QueueCapacity: cfg.JobQueueCapacity,
		Retention:     time.Duration(cfg.JobRetentionMinutes) * time.Minute,
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	go w.Start(workerCtx)

	// Create API handler
	handler := api.NewHandler(w, database)
	router := api.NewRouter(handler, api.RouterConfig{
		BackendAPIKey:      cfg.BackendAPIKey,
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
	})

	if cfg.BackendAPIKey != "" {
		log.Println("API key authentication enabled")
	} else {
		log.Println("WARNING: No BACKEND_API_KEY set — API is unprotected (dev mode)")
	}

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("API server listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	workerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
