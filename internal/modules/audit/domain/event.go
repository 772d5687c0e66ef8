package domain

import (
	"time"

	configurationDomain "github.com/configwatch/config-slack-bot/internal/modules/configuration/domain"
)

// Event records the outcome of one configuration resolution for a channel
type Event struct {
	ChannelID string                                `json:"channel_id"`
	Outcome   configurationDomain.ResolutionOutcome `json:"outcome"`
	FileTitle string                                `json:"file_title"`
	Permalink string                                `json:"permalink"`
	Detail    string                                `json:"detail,omitempty"`
	At        time.Time                             `json:"at"`
}
