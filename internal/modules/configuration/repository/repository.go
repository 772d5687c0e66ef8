package repository

import (
	"github.com/configwatch/config-slack-bot/internal/modules/configuration/domain"
)

// Repository defines the interface for the per-channel configuration cache.
// This abstraction allows easy replacement of storage implementations
// (e.g., MemoryStorage -> Redis)
type Repository interface {
	Save(configuration *domain.ChannelConfiguration) error
	// Get returns nil (and no error) when the channel has no entry.
	Get(channelID string) (*domain.ChannelConfiguration, error)
	GetAll() ([]*domain.ChannelConfiguration, error)
	Delete(channelID string) error
}
