package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	// Upload limits
	MaxFileSize   int64
	IngestTimeout int // seconds, server-side budget for a full ingest

	// Chunking
	MaxChunkSize int
	ChunkOverlap int

	// Retrieval
	RetrievalTopK int

	// Gemini
	GeminiAPIKey          string
	GeminiModel           string
	GoogleEmbeddingsModel string
	GeminiTier            string

	// Qdrant
	QdrantHost   string
	QdrantPort   int
	QdrantAPIKey string
	QdrantUseTLS bool

	// Raw file storage
	StorageBackend string // "local" (default) or "gridfs"
	FileStorageDir string
	MongoURI       string
	DBName         string

	// Redis (rate limiting); empty URL disables the middleware
	RedisURL      string
	RedisPassword string
	RedisDB       int

	RateLimitReqs   int
	RateLimitWindow int

	// Keep-alive self ping; empty URL disables it
	KeepAliveURL     string
	KeepAliveMinutes int

	// Tracing
	TracingEnabled bool
	OTELEndpoint   string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "*"), ","),

		MaxFileSize:   getEnvInt64("MAX_FILE_SIZE", 52428800), // 50MB
		IngestTimeout: getEnvInt("INGEST_TIMEOUT", 300),

		MaxChunkSize: getEnvInt("MAX_CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 100),

		RetrievalTopK: getEnvInt("RETRIEVAL_TOP_K", 5),

		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GoogleEmbeddingsModel: getEnv("GOOGLE_EMBEDDINGS_MODEL", "text-embedding-004"),
		GeminiTier:            getEnv("GEMINI_TIER", "free"),

		QdrantHost:   getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:   getEnvInt("QDRANT_PORT", 6334),
		QdrantAPIKey: getEnv("QDRANT_API_KEY", ""),
		QdrantUseTLS: getEnvBool("QDRANT_USE_TLS", false),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		FileStorageDir: getEnv("FILE_STORAGE_DIR", "./storage"),
		MongoURI:       getEnv("MONGO_URI", ""),
		DBName:         getEnv("DB_NAME", "pdf_chat"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		KeepAliveURL:     getEnv("KEEP_ALIVE_URL", ""),
		KeepAliveMinutes: getEnvInt("KEEP_ALIVE_MINUTES", 14),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTELEndpoint:   getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
	}

	// Validate required fields
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required - set it in .env file")
	}

	if cfg.QdrantHost == "" {
		return nil, fmt.Errorf("QDRANT_HOST is required - set it in .env file")
	}

	switch cfg.StorageBackend {
	case "local":
	case "gridfs":
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI is required when STORAGE_BACKEND=gridfs")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND: %s", cfg.StorageBackend)
	}

	if cfg.ChunkOverlap >= cfg.MaxChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than MAX_CHUNK_SIZE (%d)",
			cfg.ChunkOverlap, cfg.MaxChunkSize)
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

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
