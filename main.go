package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Krishan098/fo/config"
	"github.com/Krishan098/fo/handler"
	"github.com/Krishan098/fo/middleware"
	"github.com/Krishan098/fo/pkg/logger"
	"github.com/Krishan098/fo/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Secrets come from the environment; a local .env is convenient in dev.
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	fileStore, err := buildFileStore(cfg)
	if err != nil {
		slog.Error("failed to initialize file storage", "error", err)
		os.Exit(1)
	}

	store := service.NewContractStore(&cfg.Store)

	textExtractor := service.NewPdftotextExtractor(cfg.Extraction.Pdftotext)
	fields, err := buildFieldExtractor(cfg)
	if err != nil {
		slog.Error("failed to initialize field extractor", "error", err)
		os.Exit(1)
	}

	runner := service.NewPipelineRunner(store, textExtractor, fields,
		time.Duration(cfg.Pipeline.StageDelayMS)*time.Millisecond)
	queue := service.NewPipelineQueue(runner,
		service.WithWorkers(cfg.Pipeline.Workers),
		service.WithQueueSize(cfg.Pipeline.QueueSize),
		service.WithJobTimeout(time.Duration(cfg.Pipeline.JobTimeoutSecs)*time.Second),
	)

	authHandler := handler.NewAuthHandler(cfg)
	contractHandler := handler.NewContractHandler(store, fileStore, queue, cfg.Upload.MaxFileSizeMB)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:   []string{"X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))
	router.Use(middleware.RateLimit(100, time.Minute))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)
		protected.POST("/contracts/upload", contractHandler.Upload)
		protected.GET("/contracts", contractHandler.List)
		protected.GET("/contracts/:id", contractHandler.Get)
		protected.GET("/contracts/:id/status", contractHandler.GetStatus)
		protected.GET("/contracts/:id/download", contractHandler.Download)
		protected.DELETE("/contracts/:id", contractHandler.Delete)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// Let queued pipeline runs finish before the process exits.
	queue.Shutdown(ctx)

	slog.Info("server exited gracefully")
}

func buildFileStore(cfg *config.Config) (service.FileStore, error) {
	if !cfg.Minio.Enabled {
		slog.Info("using in-memory file storage")
		return service.NewMemoryFileStore(), nil
	}

	minioStore, err := service.NewMinioFileStore(&cfg.Minio)
	if err != nil {
		return nil, err
	}
	if err := minioStore.EnsureBucket(context.Background()); err != nil {
		return nil, err
	}
	slog.Info("using minio file storage", "endpoint", cfg.Minio.Endpoint, "bucket", cfg.Minio.Bucket)
	return minioStore, nil
}

func buildFieldExtractor(cfg *config.Config) (service.FieldExtractor, error) {
	switch cfg.Extraction.Strategy {
	case "heuristic":
		slog.Info("using heuristic field extraction")
		return service.NewHeuristicExtractor(), nil
	case "llm":
		if cfg.Cohere.APIKey == "" {
			return nil, fmt.Errorf("llm extraction requires COHERE_API_KEY")
		}
		slog.Info("using llm field extraction", "model", cfg.Cohere.Model)
		return service.NewLLMExtractor(service.NewCohereService(&cfg.Cohere)), nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy %q", cfg.Extraction.Strategy)
	}
}
