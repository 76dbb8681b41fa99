package main

import (
	"context"
	"log"
	"time"

	"phishing-paper-platform/internal/ai"
	"phishing-paper-platform/internal/config"
	"phishing-paper-platform/internal/logger"
	"phishing-paper-platform/internal/queue"
	"phishing-paper-platform/internal/rag"
	"phishing-paper-platform/internal/store"

	"github.com/hibiken/asynq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

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

	// Retrieval pipeline shared with the API server
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer startupCancel()

	embedder, err := ai.NewEmbedder(startupCtx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize embedder:", err)
	}

	contents := store.NewContentStore(db)
	chunks := store.NewChunkStore(db)

	index := rag.NewVectorIndex(embedder.ID(), embedder.Dimension())
	retriever, err := rag.NewRetriever(cfg, contents, chunks, embedder, index, nil)
	if err != nil {
		log.Fatal("Failed to initialize retriever:", err)
	}

	// Redis options for Asynq
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 2, // re-indexing is exclusive anyway
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	processor := queue.NewTaskProcessor(retriever)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskReindexContent, processor.HandleReindexContent)

	logger.Info("Starting worker", "redis", cfg.RedisURL)
	if err := server.Run(mux); err != nil {
		log.Fatalf("Worker exited: %v", err)
	}
}
