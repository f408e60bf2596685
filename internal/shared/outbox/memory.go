package outbox

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore backs the relay in tests and local development.
type MemoryStore struct {
	mu       sync.Mutex
	messages map[string]Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{messages: map[string]Message{}}
}

func (s *MemoryStore) Append(_ context.Context, message Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if message.Status == "" {
		message.Status = StatusPending
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	s.messages[message.ID] = message
	return nil
}

func (s *MemoryStore) ListPending(_ context.Context, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := make([]Message, 0, len(s.messages))
	for _, message := range s.messages {
		if message.Status == StatusPending {
			pending = append(pending, message)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *MemoryStore) MarkPublished(_ context.Context, id string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if message, ok := s.messages[id]; ok {
		message.Status = StatusPublished
		s.messages[id] = message
	}
	return nil
}

func (s *MemoryStore) MarkFailed(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if message, ok := s.messages[id]; ok {
		message.Status = StatusFailed
		message.RetryCount++
		s.messages[id] = message
	}
	return nil
}

// All returns every stored message, newest last. Test helper.
func (s *MemoryStore) All() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]Message, 0, len(s.messages))
	for _, message := range s.messages {
		all = append(all, message)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all
}

var _ Store = (*MemoryStore)(nil)
