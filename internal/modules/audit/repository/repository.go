package repository

import (
	"github.com/configwatch/config-slack-bot/internal/modules/audit/domain"
)

// Repository defines the interface for resolution event persistence
type Repository interface {
	SaveEvent(event *domain.Event) error
	// GetEvents returns a channel's events, oldest first.
	GetEvents(channelID string, limit int) ([]*domain.Event, error)
}
