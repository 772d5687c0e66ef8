package repository

import (
	"sync"

	"github.com/configwatch/config-slack-bot/internal/modules/audit/domain"
	"github.com/samber/oops"
)

// MemoryStorage keeps a bounded per-channel log of resolution events.
// Oldest events are dropped once a channel reaches capacity.
type MemoryStorage struct {
	capacity int
	events   map[string][]*domain.Event
	mu       sync.RWMutex
}

// NewMemoryStorage creates an event log keeping at most capacity events per channel
func NewMemoryStorage(capacity int) Repository {
	if capacity <= 0 {
		capacity = 50
	}
	return &MemoryStorage{
		capacity: capacity,
		events:   make(map[string][]*domain.Event),
	}
}

func (s *MemoryStorage) SaveEvent(event *domain.Event) error {
	if event == nil || event.ChannelID == "" {
		return oops.Errorf("event without channel id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := append(s.events[event.ChannelID], event)
	if len(log) > s.capacity {
		log = log[len(log)-s.capacity:]
	}
	s.events[event.ChannelID] = log
	return nil
}

func (s *MemoryStorage) GetEvents(channelID string, limit int) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.events[channelID]
	if limit > 0 && len(log) > limit {
		log = log[len(log)-limit:]
	}

	out := make([]*domain.Event, len(log))
	copy(out, log)
	return out, nil
}
