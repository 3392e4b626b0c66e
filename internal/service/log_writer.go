package service

import (
	"context"
	"sync"
	"time"

	"github.com/TeranHc/ugtesis/internal/models"

	"go.uber.org/zap"
)

// LogStore is the slice of the query-log store the writer needs.
type LogStore interface {
	Insert(ctx context.Context, log *models.QueryLog) error
}

// QueryLogWriter persists answered questions off the response path. Record
// never blocks and never fails the caller: a full buffer or a failed insert
// is logged and counted, nothing more.
type QueryLogWriter struct {
	store   LogStore
	logger  *zap.Logger
	entries chan *models.QueryLog
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	dropped int
}

func NewQueryLogWriter(store LogStore, bufferSize int, logger *zap.Logger) *QueryLogWriter {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &QueryLogWriter{
		store:   store,
		logger:  logger,
		entries: make(chan *models.QueryLog, bufferSize),
	}
}

func (w *QueryLogWriter) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true

	w.wg.Add(1)
	go w.worker()
}

// Stop drains pending entries and waits for the worker to finish.
func (w *QueryLogWriter) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	w.mu.Unlock()

	close(w.entries)
	w.wg.Wait()
}

// Record enqueues a log entry for background insertion.
func (w *QueryLogWriter) Record(entry *models.QueryLog) {
	select {
	case w.entries <- entry:
	default:
		w.mu.Lock()
		w.dropped++
		dropped := w.dropped
		w.mu.Unlock()
		w.logger.Error("Query log buffer full, entry dropped",
			zap.String("question", entry.Question),
			zap.Int("dropped_total", dropped),
		)
	}
}

func (w *QueryLogWriter) worker() {
	defer w.wg.Done()

	for entry := range w.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := w.store.Insert(ctx, entry); err != nil {
			w.logger.Error("Failed to write query log",
				zap.Error(err),
				zap.String("question", entry.Question),
			)
		}
		cancel()
	}
}
