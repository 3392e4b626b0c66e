package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/TeranHc/ugtesis/internal/api"
	"github.com/TeranHc/ugtesis/internal/api/handlers"
	"github.com/TeranHc/ugtesis/internal/repository"
	"github.com/TeranHc/ugtesis/internal/service"
	"github.com/TeranHc/ugtesis/pkg/config"
	"github.com/TeranHc/ugtesis/pkg/logger"
	"github.com/TeranHc/ugtesis/pkg/postgres"

	"go.uber.org/zap"
)

// @title UG Tesis Assistant API
// @version 1.0
// @description Asistente académico sobre reglamentos de la Universidad de Guayaquil

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting UG Tesis assistant service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	regRepo := repository.NewRegulationRepository(db, appLogger)
	logRepo := repository.NewQueryLogRepository(db, appLogger)

	// Initialize services
	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	cacheService := service.NewCacheService(logRepo, &cfg.RAG, appLogger)
	retriever := service.NewRetriever(regRepo, &cfg.RAG, appLogger)
	answerService := service.NewAnswerService(llmService, appLogger)

	logWriter := service.NewQueryLogWriter(logRepo, cfg.RAG.LogBuffer, appLogger)
	logWriter.Start()
	defer logWriter.Stop()

	events := service.NewEventBus()
	events.Subscribe(func(e service.Event) {
		switch e.Type {
		case service.EventCacheHit:
			appLogger.Info("Semantic cache hit", zap.String("question", e.Question))
		case service.EventAnswerReady:
			appLogger.Info("Answer ready",
				zap.String("question", e.Question),
				zap.String("source", string(e.Source)),
			)
		case service.EventRequestFailed:
			appLogger.Warn("Chat request failed",
				zap.String("question", e.Question),
				zap.Error(e.Err),
			)
		}
	})

	chatService := service.NewChatService(
		llmService,
		cacheService,
		retriever,
		answerService,
		logWriter,
		events,
		&cfg.RAG,
		appLogger,
	)
	regService := service.NewRegulationService(regRepo, llmService, cacheService, appLogger)

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(chatService, appLogger)
	regHandler := handlers.NewRegulationHandler(regService, appLogger)
	logHandler := handlers.NewQueryLogHandler(logRepo, appLogger)

	// Setup router
	app := api.SetupRouter(chatHandler, regHandler, logHandler, cfg.Server.SecretKey, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
