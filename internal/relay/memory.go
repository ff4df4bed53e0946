package relay

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store
type MemoryStore struct {
	mu      sync.RWMutex
	last    Command
	history []Command
	limit   int
	now     func() time.Time
}

// NewMemoryStore creates a store keeping at most limit commands of history
func NewMemoryStore(limit int) *MemoryStore {
	if limit < 1 {
		limit = 1
	}
	return &MemoryStore{
		last:  Empty(),
		limit: limit,
		now:   time.Now,
	}
}

func (s *MemoryStore) Last(ctx context.Context) (Command, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, nil
}

func (s *MemoryStore) Append(ctx context.Context, cmd string) (Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := Command{
		ID:  s.last.ID + 1,
		Cmd: cmd,
		At:  s.now().UTC(),
	}
	s.last = c

	s.history = append([]Command{c}, s.history...)
	if len(s.history) > s.limit {
		s.history = s.history[:s.limit]
	}
	return c, nil
}

func (s *MemoryStore) History(ctx context.Context, n int) ([]Command, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.history) {
		n = len(s.history)
	}
	out := make([]Command, n)
	copy(out, s.history[:n])
	return out, nil
}
