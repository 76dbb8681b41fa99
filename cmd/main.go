package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phishing-paper-platform/internal/ai"
	"phishing-paper-platform/internal/config"
	"phishing-paper-platform/internal/logger"
	"phishing-paper-platform/internal/rag"
	"phishing-paper-platform/internal/store"
	"phishing-paper-platform/internal/telemetry"
	"phishing-paper-platform/middleware"
	"phishing-paper-platform/routes"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Tracing and metrics
	shutdownTracer, err := telemetry.InitTracer("phishing-paper-platform")
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
	} else {
		defer shutdownTracer()
	}
	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("Metrics disabled", "error", err)
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.DBName)

	// Redis is optional: without it rate limiting and the task queue are off
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, rate limiting and async re-index disabled", "error", err)
		rdb = nil
	}

	// Retrieval pipeline
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer startupCancel()

	embedder, err := ai.NewEmbedder(startupCtx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize embedder:", err)
	}

	contents := store.NewContentStore(db)
	chunks := store.NewChunkStore(db)
	messages := store.NewMessageStore(db)

	index := rag.NewVectorIndex(embedder.ID(), embedder.Dimension())
	retriever, err := rag.NewRetriever(cfg, contents, chunks, embedder, index, metrics)
	if err != nil {
		log.Fatal("Failed to initialize retriever:", err)
	}

	loaded, err := retriever.LoadFromStore(startupCtx)
	if err != nil {
		logger.Warn("Index rebuild from store failed, starting empty", "error", err)
	} else {
		logger.Info("Vector index rebuilt", "chunks", loaded, "embedder", embedder.ID())
	}

	// Answer generation
	geminiClient, err := ai.NewGeminiClient(cfg, metrics)
	if err != nil {
		log.Fatal("Failed to initialize Gemini client:", err)
	}
	defer geminiClient.Close()
	composer := rag.NewComposer(geminiClient, time.Duration(cfg.AnswerTimeoutSec)*time.Second)

	// Task queue client for async re-indexing
	var asynqClient *asynq.Client
	if rdb != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer asynqClient.Close()
	}

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.EnrichTrace())
	if metrics != nil {
		router.Use(middleware.MetricsMiddleware(metrics))
	}
	if rdb != nil {
		router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	}

	// Setup routes
	routes.SetupHealthRoutes(router, mongoClient, rdb, retriever)
	routes.SetupChatRoutes(router, cfg, retriever, composer, messages)
	routes.SetupSearchRoutes(router, contents)
	routes.SetupContentRoutes(router, contents)
	routes.SetupAdminRoutes(router, cfg, retriever, contents, asynqClient)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
