package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collabuu-backend/config"
	"collabuu-backend/database"
	"collabuu-backend/firebase"
	"collabuu-backend/identity"
	"collabuu-backend/logging"
	"collabuu-backend/middleware"
	"collabuu-backend/routes"

	firebaseapp "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatal().Err(err).Msg("error loading .env file")
	}
	logging.Init(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FORMAT", "json"))

	if err := config.ValidateEnv(); err != nil {
		log.Fatal().Err(err).Msg("environment validation failed")
	}
	visitPoints, err := config.ParseVisitPoints(os.Getenv("VISIT_POINTS"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid VISIT_POINTS")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	if err := database.CreateDefaultBusiness(db); err != nil {
		log.Warn().Err(err).Msg("could not create default business")
	}

	ctx := context.Background()
	provider := config.AuthProvider()

	// Firebase backs deal images in every mode and identity in firebase mode.
	var app *firebaseapp.App
	if provider == config.AuthProviderFirebase || os.Getenv("FIREBASE_STORAGE_BUCKET") != "" {
		app, err = firebase.Init(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase init failed")
		}
	}
	storageClient := firebase.NewStorageClient(app, os.Getenv("FIREBASE_STORAGE_BUCKET"))

	var verifier identity.Verifier = identity.NewJWTVerifier()
	if provider == config.AuthProviderFirebase {
		authClient, err := firebase.AuthClient(ctx, app)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase auth init failed")
		}
		verifier = identity.NewFirebaseVerifier(authClient)
	}
	gate := identity.NewGate(verifier, &identity.GormProfileStore{DB: db})
	log.Info().Str("provider", verifier.Name()).Msg("identity provider configured")

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger())

	// Limit multipart form memory to 10MB
	r.MaxMultipartMemory = 10 << 20

	origins := config.AllowedOrigins()
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
		log.Warn().Msg("no CORS origins configured, defaulting to http://localhost:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.SetupRoutes(r, routes.Deps{
		DB:           db,
		Gate:         gate,
		Storage:      storageClient,
		AuthProvider: provider,
		VisitPoints:  visitPoints,
		ScanLimiter:  middleware.NewRateLimiter(config.GetInt("SCAN_RATE_LIMIT", 30), time.Minute),
	})

	port := config.GetEnv("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// In-flight redemptions commit or roll back before the connection closes.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration("SHUTDOWN_TIMEOUT", 30*time.Second))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database connection")
		} else {
			log.Info().Msg("database connection closed")
		}
	}

	log.Info().Msg("server exited gracefully")
}
