package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/TeranHc/ugtesis/internal/models"
	"github.com/TeranHc/ugtesis/internal/repository"
	"github.com/TeranHc/ugtesis/internal/service"
	"github.com/TeranHc/ugtesis/pkg/config"
	"github.com/TeranHc/ugtesis/pkg/logger"
	"github.com/TeranHc/ugtesis/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// seedEntry is one regulation in the seed corpus file.
type seedEntry struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	regRepo := repository.NewRegulationRepository(db, appLogger)

	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	appLogger.Info("Starting database seeding...")

	corpusPath := filepath.Join("cmd", "seed", "regulations.json")
	if len(os.Args) > 1 {
		corpusPath = os.Args[1]
	}

	if err := seedRegulations(ctx, corpusPath, regRepo, llmService, appLogger); err != nil {
		appLogger.Fatal("Failed to seed regulations", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!")
}

// seedRegulations loads the corpus file and inserts every regulation that is
// not already present, computing embeddings on the way in. Matching is by
// title: re-running the seeder after adding entries to the corpus only
// processes the new ones.
func seedRegulations(
	ctx context.Context,
	corpusPath string,
	repo *repository.RegulationRepository,
	llmService *service.LLMService,
	logger *zap.Logger,
) error {
	data, err := os.ReadFile(corpusPath)
	if err != nil {
		return fmt.Errorf("failed to read corpus file: %w", err)
	}

	var entries []seedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse corpus file: %w", err)
	}

	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list existing regulations: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, reg := range existing {
		seen[reg.Title] = true
	}

	for _, entry := range entries {
		if entry.Title == "" || entry.Content == "" {
			logger.Warn("Skipping corpus entry without title or content")
			continue
		}

		if seen[entry.Title] {
			logger.Info("Regulation already seeded, skipping", zap.String("title", entry.Title))
			continue
		}

		logger.Info("Embedding regulation", zap.String("title", entry.Title))
		embedding, err := llmService.Embed(ctx, entry.Content)
		if err != nil {
			logger.Error("Failed to embed regulation, skipping",
				zap.String("title", entry.Title),
				zap.Error(err),
			)
			continue
		}

		now := time.Now()
		reg := &models.Regulation{
			ID:        uuid.New(),
			Title:     entry.Title,
			Category:  entry.Category,
			Content:   entry.Content,
			Embedding: embedding,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := repo.Create(ctx, reg); err != nil {
			logger.Error("Failed to insert regulation",
				zap.String("title", entry.Title),
				zap.Error(err),
			)
			continue
		}

		logger.Info("Seeded regulation",
			zap.String("title", entry.Title),
			zap.String("category", entry.Category),
			zap.Int("content_length", len(entry.Content)),
		)
	}

	return nil
}
