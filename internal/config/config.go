package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	DBName      string
	Port        string
	GinMode     string
	CORSOrigins []string
	AdminAPIKey string

	// Gemini completion
	GeminiAPIKey    string
	GenerationModel string
	GenTemperature  float64
	GenMaxTokens    int

	// Embeddings configuration
	EmbeddingsProvider    string // "google" (default), "local"
	GoogleEmbeddingsModel string // e.g., "text-embedding-004"
	VectorDimensions      int

	// Retrieval pipeline
	MaxChunkSize      int
	RetrievalTopK     int
	MinSimilarity     float64
	IngestConcurrency int
	EmbedTimeoutSec   int
	AnswerTimeoutSec  int
	EmbedRPM          int

	// Redis Configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Rate limiting
	RateLimitReqs   int
	RateLimitWindow int
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017/phishing_paper"),
		DBName:      getEnv("DB_NAME", "phishing_paper"),
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GenerationModel: getEnv("GENERATION_MODEL", "gemini-2.0-flash"),
		GenTemperature:  getEnvFloat64("GENERATION_TEMPERATURE", 0.7),
		GenMaxTokens:    getEnvInt("GENERATION_MAX_TOKENS", 512),

		EmbeddingsProvider:    getEnv("EMBEDDINGS_PROVIDER", "google"),
		GoogleEmbeddingsModel: getEnv("GOOGLE_EMBEDDINGS_MODEL", "text-embedding-004"),
		VectorDimensions:      getEnvInt("VECTOR_DIM", 768),

		MaxChunkSize:      getEnvInt("MAX_CHUNK_SIZE", 800),
		RetrievalTopK:     getEnvInt("RETRIEVAL_TOP_K", 4),
		MinSimilarity:     getEnvFloat64("MIN_SIMILARITY", 0.5),
		IngestConcurrency: getEnvInt("INGEST_CONCURRENCY", 4),
		EmbedTimeoutSec:   getEnvInt("EMBED_TIMEOUT_SEC", 15),
		AnswerTimeoutSec:  getEnvInt("ANSWER_TIMEOUT_SEC", 30),
		EmbedRPM:          getEnvInt("EMBED_RPM", 60),

		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),
	}

	// Validate required fields
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required - set it in .env file")
	}

	if cfg.AdminAPIKey == "" {
		return nil, fmt.Errorf("ADMIN_API_KEY is required - set it in .env file")
	}

	switch cfg.EmbeddingsProvider {
	case "google", "local", "":
	default:
		return nil, fmt.Errorf("unknown embeddings provider: %s", cfg.EmbeddingsProvider)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
