// Package main is the entry point for the bulletin board server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bboard/internal/config"
	"bboard/internal/database"
	"bboard/internal/handlers"
	"bboard/internal/mailer"
	"bboard/internal/metrics"
	"bboard/internal/render"
	"bboard/internal/router"
	"bboard/internal/session"
	"bboard/internal/storage"
	"bboard/internal/store"
	"bboard/internal/token"
)

func main() {
	// A .env file is optional; the environment wins when both exist.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey, which backs the session store.
	valkeyClient, err := session.ConnectValkey(cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Initialize the HTML template renderer.
	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	rubricStore := store.NewRubricStore(db)
	bbStore := store.NewBbStore(db)
	jokeStore := store.NewJokeStore(db)
	imageStore := store.NewImageStore(db)

	// Uploaded images go to S3-compatible object storage when configured,
	// otherwise to the local media directory served under /media/.
	var media storage.Backend
	mediaDir := ""
	if cfg.UseS3() {
		s3, err := storage.NewS3(
			context.Background(),
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL, cfg.S3UseSSL,
		)
		if err != nil {
			slog.Error("failed to initialize object storage", "error", err)
			os.Exit(1)
		}
		media = s3
		slog.Info("object storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		local, err := storage.NewLocal(cfg.MediaDir)
		if err != nil {
			slog.Error("failed to initialize media directory", "error", err)
			os.Exit(1)
		}
		media = local
		mediaDir = local.Dir()
		slog.Info("local media storage", "dir", mediaDir)
	}

	// Mailer for new-listing notifications. Disabled without an SMTP host.
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	if !mail.Enabled() {
		slog.Warn("smtp not configured, listing notifications disabled")
	}

	// JWT manager for API bearer tokens.
	tokens, err := token.NewManager(cfg.JWTSecret)
	if err != nil {
		slog.Error("failed to initialize token manager", "error", err)
		os.Exit(1)
	}

	promMetrics := metrics.New()

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(renderer, bbStore, rubricStore, jokeStore, imageStore, media)
	boardHandlers := handlers.NewBoard(renderer, bbStore, rubricStore, media, mail, cfg.AdminEmail)
	rubricHandlers := handlers.NewRubrics(renderer, rubricStore)
	authHandlers := handlers.NewAuth(renderer, sessionStore, userStore)
	apiHandlers := handlers.NewAPI(rubricStore, bbStore, userStore, tokens)

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Config{
		Sessions:      sessionStore,
		Tokens:        tokens,
		Metrics:       promMetrics,
		Public:        publicHandlers,
		Board:         boardHandlers,
		Rubrics:       rubricHandlers,
		Auth:          authHandlers,
		API:           apiHandlers,
		MediaDir:      mediaDir,
		SecureCookies: secureCookies,
	})

	// Create the HTTP server with sensible timeouts. ReadTimeout must
	// accommodate multipart image uploads on slow connections.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
