package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"

	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/providers/genai"
	"server/internal/providers/image"
	"server/internal/storage"
	"server/internal/workflow"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	ctx := context.Background()

	// Blob store backend
	var store workflow.BlobStore
	staticDir := ""
	switch cfg.StorageBackend {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load aws config")
		}
		store, err = storage.NewS3Store(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3PublicBaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init s3 store")
		}
	default:
		fileStore, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init file store")
		}
		store = fileStore
		staticDir = fileStore.BasePath()
	}

	// Gemini image generator
	client, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init gemini client")
	}
	generator := image.NewGeminiGenerator(client, store, logger)

	// Per-user workflow controllers
	workflows := workflow.NewManager(workflow.Options{
		Store:          store,
		Generator:      generator,
		HTTPClient:     &http.Client{Timeout: 60 * time.Second},
		Logger:         logger,
		Variants:       cfg.VariantsPerRun,
		MaxUploadBytes: cfg.MaxUploadBytes,
		ResultCap:      cfg.ResultCap,
	})
	defer workflows.Close()

	metrics := infra.NewMetrics()
	app := handlers.NewApp(cfg, logger, metrics, workflows)
	router := httpapi.NewRouter(app, cfg, logger, staticDir)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
