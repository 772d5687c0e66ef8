package repository

import (
	"sync"

	"github.com/configwatch/config-slack-bot/internal/modules/configuration/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// MemoryStorage implements Repository with an in-process map. Entries live
// for the process lifetime unless replaced or deleted; cold starts are
// expected to repopulate the cache from channel history.
type MemoryStorage struct {
	entries map[string]*domain.ChannelConfiguration
	mu      sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory configuration cache
func NewMemoryStorage() Repository {
	return &MemoryStorage{
		entries: make(map[string]*domain.ChannelConfiguration),
	}
}

func (s *MemoryStorage) Save(configuration *domain.ChannelConfiguration) error {
	if configuration == nil || configuration.ChannelID == "" {
		return oops.Errorf("configuration without channel id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[configuration.ChannelID] = configuration
	return nil
}

func (s *MemoryStorage) Get(channelID string) (*domain.ChannelConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	configuration, ok := s.entries[channelID]
	if !ok {
		return nil, nil
	}
	return configuration, nil
}

func (s *MemoryStorage) GetAll() ([]*domain.ChannelConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Values(s.entries), nil
}

func (s *MemoryStorage) Delete(channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, channelID)
	return nil
}
