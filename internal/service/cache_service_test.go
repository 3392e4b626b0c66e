package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TeranHc/ugtesis/internal/models"
	"github.com/TeranHc/ugtesis/internal/repository"
	"github.com/TeranHc/ugtesis/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCacheStore struct {
	results    []repository.ScoredQueryLog
	searchErr  error
	deleteErr  error
	deleteCall int
}

func (s *stubCacheStore) SearchSimilar(_ context.Context, _ []float32, _ int) ([]repository.ScoredQueryLog, error) {
	return s.results, s.searchErr
}

func (s *stubCacheStore) DeleteAll(_ context.Context) error {
	s.deleteCall++
	return s.deleteErr
}

func cacheConfig(threshold float64) *config.RAGConfig {
	return &config.RAGConfig{
		CacheThreshold:  threshold,
		CacheCandidates: 1,
	}
}

func cachedLog(question, answer string) *models.QueryLog {
	return &models.QueryLog{
		ID:       uuid.New(),
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now(),
	}
}

func TestCacheLookupHitAtThreshold(t *testing.T) {
	entry := cachedLog("¿Cuál es la nota mínima?", "La nota mínima es 7.")
	store := &stubCacheStore{
		results: []repository.ScoredQueryLog{{Log: entry, Similarity: 0.90}},
	}
	cache := NewCacheService(store, cacheConfig(0.90), zap.NewNop())

	got, ok := cache.Lookup(context.Background(), []float32{1, 0})

	require.True(t, ok)
	assert.Equal(t, entry.Answer, got.Answer)
}

func TestCacheLookupMissBelowThreshold(t *testing.T) {
	store := &stubCacheStore{
		results: []repository.ScoredQueryLog{
			{Log: cachedLog("otra pregunta", "otra respuesta"), Similarity: 0.89},
		},
	}
	cache := NewCacheService(store, cacheConfig(0.90), zap.NewNop())

	got, ok := cache.Lookup(context.Background(), []float32{1, 0})

	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCacheLookupEmptyLog(t *testing.T) {
	cache := NewCacheService(&stubCacheStore{}, cacheConfig(0.90), zap.NewNop())

	_, ok := cache.Lookup(context.Background(), []float32{1, 0})

	assert.False(t, ok)
}

func TestCacheLookupStoreErrorIsMiss(t *testing.T) {
	store := &stubCacheStore{searchErr: errors.New("connection refused")}
	cache := NewCacheService(store, cacheConfig(0.90), zap.NewNop())

	got, ok := cache.Lookup(context.Background(), []float32{1, 0})

	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCacheInvalidateAll(t *testing.T) {
	store := &stubCacheStore{}
	cache := NewCacheService(store, cacheConfig(0.90), zap.NewNop())

	require.NoError(t, cache.InvalidateAll(context.Background()))
	assert.Equal(t, 1, store.deleteCall)
}

func TestCacheInvalidateAllPropagatesError(t *testing.T) {
	store := &stubCacheStore{deleteErr: errors.New("timeout")}
	cache := NewCacheService(store, cacheConfig(0.90), zap.NewNop())

	assert.Error(t, cache.InvalidateAll(context.Background()))
}
