package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creamas/volcert/internal/certificate"
	"github.com/creamas/volcert/internal/codes"
	"github.com/creamas/volcert/internal/config"
	"github.com/creamas/volcert/internal/db"
	"github.com/creamas/volcert/internal/ingestion"
	"github.com/creamas/volcert/internal/middleware"
	"github.com/creamas/volcert/internal/repository"

	"github.com/rs/cors"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	participantRepo := repository.NewParticipantRepository(conn.Pool)
	logRepo := repository.NewIngestionLogRepository(conn.Pool)

	// Create services
	codeGenerator := codes.NewGenerator(participantRepo.ExistsByCode)
	ingestionService := ingestion.NewService(participantRepo, logRepo, codeGenerator)

	template, err := os.ReadFile(cfg.Certificate.TemplatePath)
	if err != nil {
		log.Fatalf("Failed to read certificate template %s: %v", cfg.Certificate.TemplatePath, err)
	}
	renderer := certificate.NewRenderer(template, certificate.WithVerifierURL(cfg.Certificate.VerifierURL))
	archiver := certificate.NewArchiver(participantRepo, renderer)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	ingestionHandler := middleware.LoggingMiddleware(ingestion.NewHTTPHandler(ingestionService, logRepo))
	certificateHandler := middleware.LoggingMiddleware(certificate.NewHTTPHandler(archiver, participantRepo))

	mux := http.NewServeMux()
	mux.Handle("/participants/upload", corsHandler.Handler(ingestionHandler))
	mux.Handle("/participants/logs", corsHandler.Handler(ingestionHandler))
	mux.Handle("/certificates/download", corsHandler.Handler(certificateHandler))
	mux.Handle("/certificates/verify", corsHandler.Handler(certificateHandler))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting certificate server on %s", cfg.Server.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
