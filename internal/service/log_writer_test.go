package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/TeranHc/ugtesis/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLogStore struct {
	mu       sync.Mutex
	inserted []*models.QueryLog
	err      error
}

func (s *stubLogStore) Insert(_ context.Context, log *models.QueryLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserted = append(s.inserted, log)
	return s.err
}

func (s *stubLogStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inserted)
}

func logEntry(question string) *models.QueryLog {
	return &models.QueryLog{
		ID:       uuid.New(),
		Question: question,
		Answer:   "respuesta",
		AskedAt:  time.Now(),
	}
}

func TestLogWriterStopDrainsPendingEntries(t *testing.T) {
	store := &stubLogStore{}
	writer := NewQueryLogWriter(store, 16, zap.NewNop())
	writer.Start()

	for i := 0; i < 5; i++ {
		writer.Record(logEntry("pregunta"))
	}
	writer.Stop()

	assert.Equal(t, 5, store.count())
}

func TestLogWriterInsertErrorDoesNotPropagate(t *testing.T) {
	store := &stubLogStore{err: errors.New("insert failed")}
	writer := NewQueryLogWriter(store, 4, zap.NewNop())
	writer.Start()

	require.NotPanics(t, func() {
		writer.Record(logEntry("pregunta"))
		writer.Stop()
	})
	assert.Equal(t, 1, store.count())
}

func TestLogWriterFullBufferDropsWithoutBlocking(t *testing.T) {
	store := &stubLogStore{}
	// Never started: nothing drains the channel, so the second Record
	// must take the drop path instead of blocking.
	writer := NewQueryLogWriter(store, 1, zap.NewNop())

	done := make(chan struct{})
	go func() {
		writer.Record(logEntry("primera"))
		writer.Record(logEntry("segunda"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full buffer")
	}
}

func TestLogWriterStartIsIdempotent(t *testing.T) {
	store := &stubLogStore{}
	writer := NewQueryLogWriter(store, 4, zap.NewNop())
	writer.Start()
	writer.Start()

	writer.Record(logEntry("pregunta"))
	writer.Stop()

	assert.Equal(t, 1, store.count())
}
