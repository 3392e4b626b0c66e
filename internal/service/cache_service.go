package service

import (
	"context"

	"github.com/TeranHc/ugtesis/internal/models"
	"github.com/TeranHc/ugtesis/internal/repository"
	"github.com/TeranHc/ugtesis/pkg/config"

	"go.uber.org/zap"
)

// CacheStore is the slice of the query-log store the semantic cache needs.
type CacheStore interface {
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]repository.ScoredQueryLog, error)
	DeleteAll(ctx context.Context) error
}

// CacheService answers near-duplicate questions from the query log instead
// of re-running retrieval and generation. The threshold is deliberately high:
// a hit must mean "the same question", not "the same topic".
type CacheService struct {
	store      CacheStore
	threshold  float64
	candidates int
	logger     *zap.Logger
}

func NewCacheService(store CacheStore, cfg *config.RAGConfig, logger *zap.Logger) *CacheService {
	candidates := cfg.CacheCandidates
	if candidates < 1 {
		candidates = 1
	}
	return &CacheService{
		store:      store,
		threshold:  cfg.CacheThreshold,
		candidates: candidates,
		logger:     logger,
	}
}

// Lookup returns the best cached answer whose similarity reaches the
// threshold. Store failures degrade to a miss: the cache must never take the
// request down with it.
func (s *CacheService) Lookup(ctx context.Context, embedding []float32) (*models.QueryLog, bool) {
	candidates, err := s.store.SearchSimilar(ctx, embedding, s.candidates)
	if err != nil {
		s.logger.Warn("Cache lookup failed, treating as miss", zap.Error(err))
		return nil, false
	}

	for _, c := range candidates {
		if c.Similarity >= s.threshold {
			s.logger.Info("Semantic cache hit",
				zap.Float64("similarity", c.Similarity),
				zap.String("cached_question", c.Log.Question),
			)
			return c.Log, true
		}
	}

	return nil, false
}

// InvalidateAll wipes every cached answer. Called after any knowledge-base
// mutation: a cached answer may cite content that no longer exists, and
// there is no per-entry dependency tracking to do better.
func (s *CacheService) InvalidateAll(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return err
	}
	s.logger.Info("Semantic cache invalidated")
	return nil
}
