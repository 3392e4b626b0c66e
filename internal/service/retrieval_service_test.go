package service

import (
	"context"
	"errors"
	"testing"

	"github.com/TeranHc/ugtesis/internal/models"
	"github.com/TeranHc/ugtesis/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSearcher struct {
	vectorResults  []*models.Regulation
	vectorErr      error
	keywordResults []*models.Regulation
	keywordErr     error
	keywordTerms   []string
	vectorCalls    int
	keywordCalls   int
}

func (s *stubSearcher) SearchSimilar(_ context.Context, _ []float32, _ float64, _ int) ([]*models.Regulation, error) {
	s.vectorCalls++
	return s.vectorResults, s.vectorErr
}

func (s *stubSearcher) KeywordSearch(_ context.Context, terms []string, _ int) ([]*models.Regulation, error) {
	s.keywordCalls++
	s.keywordTerms = terms
	return s.keywordResults, s.keywordErr
}

func retrievalConfig(strategy string) *config.RAGConfig {
	return &config.RAGConfig{
		RelevanceFloor: 0.50,
		TopK:           5,
		Strategy:       strategy,
	}
}

func regulation(title string) *models.Regulation {
	return &models.Regulation{Title: title, Category: "Evaluación", Content: "contenido"}
}

func TestTokenizeQuestion(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected []string
	}{
		{
			name:     "drops stop words and punctuation",
			question: "¿Cuál es la nota mínima para aprobar?",
			expected: []string{"nota", "mínima", "aprobar"},
		},
		{
			name:     "lowercases terms",
			question: "Reglamento de MATRÍCULAS",
			expected: []string{"reglamento", "matrículas"},
		},
		{
			name:     "only stop words",
			question: "¿qué es esto?",
			expected: nil,
		},
		{
			name:     "drops single characters",
			question: "a b examen",
			expected: []string{"examen"},
		},
		{
			name:     "empty question",
			question: "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TokenizeQuestion(tt.question))
		})
	}
}

func TestVectorRetriever(t *testing.T) {
	store := &stubSearcher{vectorResults: []*models.Regulation{regulation("Evaluación")}}
	r := NewRetriever(store, retrievalConfig("vector"), zap.NewNop())

	results, err := r.Retrieve(context.Background(), "nota mínima", []float32{1, 0})

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 0, store.keywordCalls)
}

func TestKeywordRetrieverSkipsEmptyTerms(t *testing.T) {
	store := &stubSearcher{}
	r := NewRetriever(store, retrievalConfig("keyword"), zap.NewNop())

	results, err := r.Retrieve(context.Background(), "¿qué es esto?", nil)

	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Equal(t, 0, store.keywordCalls)
}

func TestKeywordRetrieverPassesTerms(t *testing.T) {
	store := &stubSearcher{keywordResults: []*models.Regulation{regulation("Matrículas")}}
	r := NewRetriever(store, retrievalConfig("keyword"), zap.NewNop())

	results, err := r.Retrieve(context.Background(), "tercera matrícula", nil)

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, []string{"tercera", "matrícula"}, store.keywordTerms)
}

func TestKeywordRetrieverRanksBySimilarity(t *testing.T) {
	far := regulation("Reglamento Lejano")
	far.Embedding = []float32{0, 1}
	near := regulation("Reglamento Cercano")
	near.Embedding = []float32{1, 0}
	store := &stubSearcher{keywordResults: []*models.Regulation{far, near}}
	r := NewRetriever(store, retrievalConfig("keyword"), zap.NewNop())

	results, err := r.Retrieve(context.Background(), "tercera matrícula", []float32{1, 0})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Reglamento Cercano", results[0].Title)
	assert.Equal(t, "Reglamento Lejano", results[1].Title)
}

func TestKeywordRetrieverKeepsOrderWithoutQueryVector(t *testing.T) {
	first := regulation("Primero")
	second := regulation("Segundo")
	store := &stubSearcher{keywordResults: []*models.Regulation{first, second}}
	r := NewRetriever(store, retrievalConfig("keyword"), zap.NewNop())

	results, err := r.Retrieve(context.Background(), "tercera matrícula", nil)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Primero", results[0].Title)
}

func TestHybridPrefersVectorResults(t *testing.T) {
	store := &stubSearcher{vectorResults: []*models.Regulation{regulation("Titulación")}}
	r := NewRetriever(store, retrievalConfig("hybrid"), zap.NewNop())

	results, err := r.Retrieve(context.Background(), "proceso de titulación", []float32{1, 0})

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 0, store.keywordCalls)
}

func TestHybridFallsBackOnEmptyVectorResults(t *testing.T) {
	store := &stubSearcher{keywordResults: []*models.Regulation{regulation("Matrículas")}}
	r := NewRetriever(store, retrievalConfig("hybrid"), zap.NewNop())

	results, err := r.Retrieve(context.Background(), "tercera matrícula", []float32{1, 0})

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, store.vectorCalls)
	assert.Equal(t, 1, store.keywordCalls)
}

func TestHybridFallsBackOnVectorError(t *testing.T) {
	store := &stubSearcher{
		vectorErr:      errors.New("pgvector down"),
		keywordResults: []*models.Regulation{regulation("Evaluación")},
	}
	r := NewRetriever(store, retrievalConfig("hybrid"), zap.NewNop())

	results, err := r.Retrieve(context.Background(), "examen de recuperación", []float32{1, 0})

	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestHybridEmptyEverywhere(t *testing.T) {
	store := &stubSearcher{}
	r := NewRetriever(store, retrievalConfig("hybrid"), zap.NewNop())

	results, err := r.Retrieve(context.Background(), "tema desconocido", []float32{1, 0})

	require.NoError(t, err)
	assert.Empty(t, results)
}
