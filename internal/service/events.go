package service

import (
	"sync"

	"github.com/TeranHc/ugtesis/internal/dto"
)

// Lifecycle signals published by the pipeline so presentation layers (chat
// UI, avatar, speech) can react without living inside it.
type EventType string

const (
	EventRequestStarted EventType = "request_started"
	EventCacheHit       EventType = "cache_hit"
	EventAnswerReady    EventType = "answer_ready"
	EventRequestFailed  EventType = "request_failed"
)

type Event struct {
	Type     EventType
	Question string
	Source   dto.AnswerSource
	Err      error
}

// EventBus is a minimal observer: subscribers are notified asynchronously
// and must not be able to slow down or fail the pipeline.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []func(Event)
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

func (b *EventBus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

func (b *EventBus) Publish(event Event) {
	b.mu.RLock()
	subs := make([]func(Event), len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, fn := range subs {
		go fn(event)
	}
}
