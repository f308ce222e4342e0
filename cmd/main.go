package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdf-chat-backend/internal/ai"
	"pdf-chat-backend/internal/config"
	"pdf-chat-backend/internal/logger"
	"pdf-chat-backend/internal/telemetry"
	"pdf-chat-backend/internal/vectordb"
	"pdf-chat-backend/middleware"
	"pdf-chat-backend/routes"
	"pdf-chat-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Optional tracing
	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("pdf-chat-backend", cfg.OTELEndpoint)
		if err != nil {
			log.Fatal("Failed to initialize tracer:", err)
		}
		defer shutdown()
	}

	// Gemini client (embeddings + generation)
	aiClient, err := ai.NewClient(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to create Gemini client:", err)
	}
	defer aiClient.Close()

	// Qdrant vector index
	index, err := vectordb.NewStore(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Qdrant:", err)
	}
	defer index.Close()

	// Raw file storage for uploaded PDFs
	var fileStore services.FileStore
	switch cfg.StorageBackend {
	case "gridfs":
		mongoClient, err := config.ConnectMongoDB(cfg)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			mongoClient.Disconnect(ctx)
		}()
		fileStore, err = services.NewGridFSFileStore(mongoClient.Database(cfg.DBName))
		if err != nil {
			log.Fatal("Failed to create GridFS store:", err)
		}
	default:
		fileStore, err = services.NewLocalFileStore(cfg.FileStorageDir)
		if err != nil {
			log.Fatal("Failed to create file store:", err)
		}
	}

	pipeline := services.NewPipeline(cfg, aiClient, aiClient, index, services.NewPDFExtractor(), fileStore)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	if cfg.TracingEnabled {
		router.Use(middleware.TracingMiddleware())
		router.Use(middleware.EnrichTrace())
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With"}
	router.Use(cors.New(corsConfig))

	// Rate limiting is optional: no Redis configured means no limiting
	if cfg.RedisURL != "" {
		rdb, err := config.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, rate limiting disabled", "error", err)
		} else {
			defer rdb.Close()
			router.Use(middleware.RateLimitMiddleware(rdb, cfg))
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Setup routes
	routes.SetupUploadRoutes(router, cfg, pipeline)
	routes.SetupChatRoutes(router, pipeline)
	routes.SetupSessionRoutes(router, pipeline)

	// Keep-alive self ping for hosts that idle out
	if cfg.KeepAliveURL != "" {
		keepAlive := services.NewKeepAlive(cfg.KeepAliveURL, cfg.KeepAliveMinutes)
		keepAlive.Start()
		defer keepAlive.Stop()
	}

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
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
