package service

import (
	"context"
	"strings"
	"time"

	"github.com/TeranHc/ugtesis/internal/dto"
	"github.com/TeranHc/ugtesis/internal/models"
	"github.com/TeranHc/ugtesis/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// AnswerCache looks up a previously logged answer by question similarity.
type AnswerCache interface {
	Lookup(ctx context.Context, embedding []float32) (*models.QueryLog, bool)
}

// Answerer produces a grounded answer from retrieved regulations.
type Answerer interface {
	Answer(ctx context.Context, question string, regs []*models.Regulation) (string, error)
}

// LogRecorder persists an answered question without blocking the caller.
type LogRecorder interface {
	Record(entry *models.QueryLog)
}

// ChatService runs the per-request pipeline:
// embed → cache lookup → (hit: return) | retrieve → generate → log → return.
// Embedding and generation failures are fatal for the request; cache lookup
// and logging degrade silently.
type ChatService struct {
	embedder  Embedder
	cache     AnswerCache
	retriever Retriever
	answerer  Answerer
	recorder  LogRecorder
	events    *EventBus
	cfg       *config.RAGConfig
	logger    *zap.Logger
}

func NewChatService(
	embedder Embedder,
	cache AnswerCache,
	retriever Retriever,
	answerer Answerer,
	recorder LogRecorder,
	events *EventBus,
	cfg *config.RAGConfig,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		embedder:  embedder,
		cache:     cache,
		retriever: retriever,
		answerer:  answerer,
		recorder:  recorder,
		events:    events,
		cfg:       cfg,
		logger:    logger,
	}
}

// Ask answers a single question. userID may be nil for anonymous askers.
func (s *ChatService) Ask(ctx context.Context, question string, userID *uuid.UUID) (*dto.ChatResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyInput
	}

	s.events.Publish(Event{Type: EventRequestStarted, Question: question})

	embedding, err := s.embed(ctx, question)
	if err != nil {
		s.events.Publish(Event{Type: EventRequestFailed, Question: question, Err: err})
		return nil, err
	}

	if cached, ok := s.cache.Lookup(ctx, embedding); ok {
		s.events.Publish(Event{Type: EventCacheHit, Question: question, Source: dto.SourceCache})
		s.events.Publish(Event{Type: EventAnswerReady, Question: question, Source: dto.SourceCache})
		return &dto.ChatResponse{Answer: cached.Answer, Source: dto.SourceCache}, nil
	}

	regs, err := s.retriever.Retrieve(ctx, question, embedding)
	if err != nil {
		// Retrieval problems degrade to "no grounding": the request goes on.
		s.logger.Warn("Retrieval degraded, continuing without context", zap.Error(err))
		regs = nil
	}

	source := dto.SourceKnowledgeBase
	if len(regs) == 0 {
		source = dto.SourceGeneral
	}

	answer, err := s.answer(ctx, question, regs)
	if err != nil {
		s.events.Publish(Event{Type: EventRequestFailed, Question: question, Err: err})
		return nil, err
	}

	s.recorder.Record(&models.QueryLog{
		ID:        uuid.New(),
		UserID:    userID,
		Question:  question,
		Answer:    answer,
		Embedding: embedding,
		AskedAt:   time.Now(),
	})

	s.events.Publish(Event{Type: EventAnswerReady, Question: question, Source: source})

	return &dto.ChatResponse{Answer: answer, Source: source}, nil
}

func (s *ChatService) embed(ctx context.Context, question string) ([]float32, error) {
	if s.cfg.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.EmbedTimeout)
		defer cancel()
	}
	return s.embedder.Embed(ctx, question)
}

func (s *ChatService) answer(ctx context.Context, question string, regs []*models.Regulation) (string, error) {
	if s.cfg.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GenerateTimeout)
		defer cancel()
	}
	return s.answerer.Answer(ctx, question, regs)
}
