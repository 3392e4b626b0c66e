package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TeranHc/ugtesis/internal/dto"
	"github.com/TeranHc/ugtesis/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRegStore struct {
	created   *models.Regulation
	updated   *models.Regulation
	deleted   []uuid.UUID
	existing  *models.Regulation
	getErr    error
	createErr error
}

func (s *stubRegStore) Create(_ context.Context, reg *models.Regulation) error {
	s.created = reg
	return s.createErr
}

func (s *stubRegStore) Update(_ context.Context, reg *models.Regulation) error {
	s.updated = reg
	return nil
}

func (s *stubRegStore) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubRegStore) GetByID(_ context.Context, _ uuid.UUID) (*models.Regulation, error) {
	return s.existing, s.getErr
}

func (s *stubRegStore) List(_ context.Context) ([]*models.Regulation, error) {
	return nil, nil
}

func (s *stubRegStore) Categories(_ context.Context) ([]string, error) {
	return nil, nil
}

type stubInvalidator struct {
	calls int
	err   error
}

func (s *stubInvalidator) InvalidateAll(_ context.Context) error {
	s.calls++
	return s.err
}

type regulationFixture struct {
	store       *stubRegStore
	embedder    *stubEmbedder
	invalidator *stubInvalidator
	svc         *RegulationService
}

func newRegulationFixture() *regulationFixture {
	f := &regulationFixture{
		store:       &stubRegStore{},
		embedder:    &stubEmbedder{embedding: []float32{0.4, 0.5, 0.6}},
		invalidator: &stubInvalidator{},
	}
	f.svc = NewRegulationService(f.store, f.embedder, f.invalidator, zap.NewNop())
	return f
}

func saveRequest() *dto.SaveRegulationRequest {
	return &dto.SaveRegulationRequest{
		Title:    "Reglamento de Evaluación",
		Category: "Evaluación",
		Content:  "La nota mínima es 7.",
	}
}

func TestRegulationCreateEmbedsAndInvalidates(t *testing.T) {
	f := newRegulationFixture()

	reg, err := f.svc.Create(context.Background(), saveRequest())

	require.NoError(t, err)
	require.NotNil(t, f.store.created)
	assert.Equal(t, f.embedder.embedding, f.store.created.Embedding)
	assert.Equal(t, reg.ID, f.store.created.ID)
	assert.Equal(t, 1, f.invalidator.calls, "knowledge mutation must wipe the semantic cache")
}

func TestRegulationCreateEmbedFailureAbortsWrite(t *testing.T) {
	f := newRegulationFixture()
	f.embedder.err = ErrEmbeddingUnavailable

	_, err := f.svc.Create(context.Background(), saveRequest())

	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	assert.Nil(t, f.store.created, "no row may be written without its embedding")
	assert.Equal(t, 0, f.invalidator.calls)
}

func TestRegulationCreateStoreFailureSkipsInvalidation(t *testing.T) {
	f := newRegulationFixture()
	f.store.createErr = errors.New("insert failed")

	_, err := f.svc.Create(context.Background(), saveRequest())

	assert.Error(t, err)
	assert.Equal(t, 0, f.invalidator.calls)
}

func TestRegulationCreateStandsWhenInvalidationFails(t *testing.T) {
	f := newRegulationFixture()
	f.invalidator.err = errors.New("delete failed")

	reg, err := f.svc.Create(context.Background(), saveRequest())

	require.NoError(t, err, "a failed cache wipe must not undo the mutation")
	assert.NotNil(t, reg)
	assert.Equal(t, 1, f.invalidator.calls)
}

func TestRegulationUpdateReembedsAndInvalidates(t *testing.T) {
	f := newRegulationFixture()
	f.store.existing = &models.Regulation{
		ID:        uuid.New(),
		Title:     "Título viejo",
		Category:  "General",
		Content:   "contenido viejo",
		Embedding: []float32{0.9, 0.9, 0.9},
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-time.Hour),
	}

	reg, err := f.svc.Update(context.Background(), f.store.existing.ID, saveRequest())

	require.NoError(t, err)
	require.NotNil(t, f.store.updated)
	assert.Equal(t, "La nota mínima es 7.", f.store.updated.Content)
	assert.Equal(t, f.embedder.embedding, f.store.updated.Embedding,
		"new content must carry a freshly computed embedding")
	assert.Equal(t, 1, f.invalidator.calls)
	assert.True(t, reg.UpdatedAt.After(reg.CreatedAt))
}

func TestRegulationUpdateNotFound(t *testing.T) {
	f := newRegulationFixture()
	f.store.getErr = pgx.ErrNoRows

	_, err := f.svc.Update(context.Background(), uuid.New(), saveRequest())

	assert.ErrorIs(t, err, ErrRegulationNotFound)
	assert.Equal(t, 0, f.invalidator.calls)
}

func TestRegulationDeleteInvalidates(t *testing.T) {
	f := newRegulationFixture()
	id := uuid.New()

	require.NoError(t, f.svc.Delete(context.Background(), id))

	assert.Equal(t, []uuid.UUID{id}, f.store.deleted)
	assert.Equal(t, 1, f.invalidator.calls)
}
