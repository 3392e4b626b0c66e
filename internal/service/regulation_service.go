package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/TeranHc/ugtesis/internal/dto"
	"github.com/TeranHc/ugtesis/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// RegulationStore is the slice of the knowledge store the admin path needs.
type RegulationStore interface {
	Create(ctx context.Context, reg *models.Regulation) error
	Update(ctx context.Context, reg *models.Regulation) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Regulation, error)
	List(ctx context.Context) ([]*models.Regulation, error)
	Categories(ctx context.Context) ([]string, error)
}

// Invalidator wipes the semantic cache.
type Invalidator interface {
	InvalidateAll(ctx context.Context) error
}

// RegulationService owns knowledge-base mutations. Every create/update
// recomputes the embedding from the new content before writing, and every
// mutation invalidates the semantic cache afterwards: a cached answer may
// cite content that just changed or disappeared.
type RegulationService struct {
	store    RegulationStore
	embedder Embedder
	cache    Invalidator
	logger   *zap.Logger
}

func NewRegulationService(store RegulationStore, embedder Embedder, cache Invalidator, logger *zap.Logger) *RegulationService {
	return &RegulationService{
		store:    store,
		embedder: embedder,
		cache:    cache,
		logger:   logger,
	}
}

func (s *RegulationService) Create(ctx context.Context, req *dto.SaveRegulationRequest) (*models.Regulation, error) {
	embedding, err := s.embedder.Embed(ctx, req.Content)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reg := &models.Regulation{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(req.Title),
		Category:  strings.TrimSpace(req.Category),
		Content:   req.Content,
		Embedding: embedding,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, reg); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("Regulation created",
		zap.String("id", reg.ID.String()),
		zap.String("title", reg.Title),
	)

	return reg, nil
}

func (s *RegulationService) Update(ctx context.Context, id uuid.UUID, req *dto.SaveRegulationRequest) (*models.Regulation, error) {
	reg, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRegulationNotFound
		}
		return nil, err
	}

	// Re-embed before writing so content and vector are replaced together.
	embedding, err := s.embedder.Embed(ctx, req.Content)
	if err != nil {
		return nil, err
	}

	reg.Title = strings.TrimSpace(req.Title)
	reg.Category = strings.TrimSpace(req.Category)
	reg.Content = req.Content
	reg.Embedding = embedding
	reg.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, reg); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("Regulation updated", zap.String("id", reg.ID.String()))

	return reg, nil
}

func (s *RegulationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	s.logger.Info("Regulation deleted", zap.String("id", id.String()))

	return nil
}

func (s *RegulationService) Get(ctx context.Context, id uuid.UUID) (*models.Regulation, error) {
	reg, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRegulationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (s *RegulationService) List(ctx context.Context) ([]*models.Regulation, error) {
	return s.store.List(ctx)
}

func (s *RegulationService) Categories(ctx context.Context) ([]string, error) {
	return s.store.Categories(ctx)
}

// invalidateCache is best effort: the mutation already happened and stands
// either way, so a failed wipe is surfaced to observability only.
func (s *RegulationService) invalidateCache(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Error("Failed to invalidate semantic cache after knowledge mutation", zap.Error(err))
	}
}
