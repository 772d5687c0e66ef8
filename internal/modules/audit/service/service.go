package service

import (
	"fmt"
	"time"

	"github.com/configwatch/config-slack-bot/internal/modules/audit/domain"
	"github.com/configwatch/config-slack-bot/internal/modules/audit/repository"
	configurationDomain "github.com/configwatch/config-slack-bot/internal/modules/configuration/domain"
	"github.com/gorilla/feeds"
	"github.com/samber/oops"
)

// Service records configuration resolution events and renders them as feeds
type Service struct {
	repo repository.Repository
}

// New creates a new audit service
func New(repo repository.Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Record stores a resolution event for a channel
func (s *Service) Record(channelID string, outcome configurationDomain.ResolutionOutcome, fileTitle, permalink, detail string) error {
	event := &domain.Event{
		ChannelID: channelID,
		Outcome:   outcome,
		FileTitle: fileTitle,
		Permalink: permalink,
		Detail:    detail,
		At:        time.Now(),
	}

	if err := s.repo.SaveEvent(event); err != nil {
		return oops.With("channel_id", channelID, "context", "failed to save resolution event").Wrap(err)
	}
	return nil
}

// GetEvents returns a channel's recent resolution events, oldest first
func (s *Service) GetEvents(channelID string, limit int) ([]*domain.Event, error) {
	return s.repo.GetEvents(channelID, limit)
}

// GenerateFeed generates an RSS feed of a channel's resolution events
func (s *Service) GenerateFeed(channelID string, baseURL string) (*feeds.Feed, error) {
	events, err := s.repo.GetEvents(channelID, 50)
	if err != nil {
		return nil, oops.With("channel_id", channelID, "context", "failed to get events").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Configuration events - %s", channelID),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/feeds/%s", baseURL, channelID)},
		Description: fmt.Sprintf("Configuration resolution events for channel %s", channelID),
		Created:     time.Now(),
	}

	var items []*feeds.Item
	for _, event := range events {
		items = append(items, s.eventToFeedItem(event))
	}
	feed.Items = items

	if len(events) > 0 {
		feed.Updated = events[len(events)-1].At
	}

	return feed, nil
}

func (s *Service) eventToFeedItem(event *domain.Event) *feeds.Item {
	title := fmt.Sprintf("%s: %s", event.Outcome, event.FileTitle)
	if event.FileTitle == "" {
		title = event.Outcome.String()
	}

	description := event.Detail
	if description == "" {
		description = fmt.Sprintf("Configuration file %q resolved with outcome %s", event.FileTitle, event.Outcome)
	}

	return &feeds.Item{
		Title:       title,
		Link:        &feeds.Link{Href: event.Permalink},
		Description: description,
		Created:     event.At,
		Id:          fmt.Sprintf("%s-%d", event.ChannelID, event.At.UnixNano()),
	}
}
