package slack

import (
	"context"
	"log/slog"
	"strings"

	"github.com/configwatch/config-slack-bot/internal/modules/configuration/domain"
	configurationService "github.com/configwatch/config-slack-bot/internal/modules/configuration/service"
	"github.com/samber/lo"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// Handler consumes Socket Mode events and drives configuration resolution
type Handler struct {
	client   *Client
	resolver *configurationService.Service
}

// NewHandler creates a new Socket Mode event handler
func NewHandler(client *Client, resolver *configurationService.Service) *Handler {
	return &Handler{
		client:   client,
		resolver: resolver,
	}
}

// Run connects, then consumes events until the context is cancelled
func (h *Handler) Run(ctx context.Context) error {
	if err := h.client.Connect(ctx); err != nil {
		return err
	}

	socket := h.client.Socket()
	go func() {
		if err := socket.RunContext(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Socket mode connection ended", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-socket.Events:
			if !ok {
				return nil
			}
			h.handleEvent(ctx, socket, event)
		}
	}
}

func (h *Handler) handleEvent(ctx context.Context, socket *socketmode.Client, event socketmode.Event) {
	switch event.Type {
	case socketmode.EventTypeConnecting:
		slog.Info("Connecting to Slack APIs using WebSockets...")

	case socketmode.EventTypeConnectionError:
		slog.Error("Socket mode connection error", "data", event.Data)

	case socketmode.EventTypeConnected:
		slog.Info("Connected to Slack APIs")

	case socketmode.EventTypeEventsAPI:
		eventsAPIEvent, ok := event.Data.(slackevents.EventsAPIEvent)
		if !ok {
			slog.Warn("Unexpected event payload", "data", event.Data)
			socket.Ack(*event.Request)
			return
		}
		socket.Ack(*event.Request)
		h.handleEventsAPI(ctx, eventsAPIEvent)

	case socketmode.EventTypeSlashCommand, socketmode.EventTypeInteractive:
		socket.Ack(*event.Request)
	}
}

func (h *Handler) handleEventsAPI(ctx context.Context, event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}

	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.FileSharedEvent:
		h.handleFileShared(ctx, ev.ChannelID, ev.FileID, ev.UserID)

	case *slackevents.FileChangeEvent:
		h.handleFileChanged(ctx, ev.FileID)

	case *slackevents.MemberJoinedChannelEvent:
		if ev.User == h.client.UserID() {
			h.replayChannelHistory(ctx, ev.Channel)
		}

	case *slackevents.MemberLeftChannelEvent:
		if ev.User == h.client.UserID() {
			if err := h.resolver.Reset(ev.Channel); err != nil {
				slog.Error("Failed to reset channel configuration", "channel_id", ev.Channel, "error", err)
			} else {
				slog.Info("Channel configuration reset", "channel_id", ev.Channel)
			}
		}

	case *slackevents.MessageEvent:
		h.handleMessage(ctx, ev)
	}
}

// handleFileShared re-evaluates the channel from a live upload; the
// uploader gets the validation detail privately when the file is bad
func (h *Handler) handleFileShared(ctx context.Context, channelID, fileID, userID string) {
	candidate, _, err := h.client.GetFileInfo(ctx, fileID)
	if err != nil {
		slog.Error("Failed to resolve shared file", "file_id", fileID, "error", err)
		return
	}

	outcome, err := h.resolver.Refresh(ctx, channelID, []domain.FileCandidate{candidate}, configurationService.RefreshOptions{
		ForceCreate: true,
		RequesterID: userID,
	})
	if err != nil {
		slog.Error("Configuration refresh failed", "channel_id", channelID, "file_id", fileID, "error", err)
		return
	}
	slog.Info("Processed shared file", "channel_id", channelID, "file_id", fileID, "outcome", outcome)
}

// handleFileChanged refreshes every channel the changed file is shared into
func (h *Handler) handleFileChanged(ctx context.Context, fileID string) {
	candidate, channels, err := h.client.GetFileInfo(ctx, fileID)
	if err != nil {
		slog.Error("Failed to resolve changed file", "file_id", fileID, "error", err)
		return
	}

	for _, channelID := range channels {
		outcome, err := h.resolver.Refresh(ctx, channelID, []domain.FileCandidate{candidate}, configurationService.RefreshOptions{
			ForceCreate: true,
		})
		if err != nil {
			slog.Error("Configuration refresh failed", "channel_id", channelID, "file_id", fileID, "error", err)
			continue
		}
		slog.Info("Processed changed file", "channel_id", channelID, "file_id", fileID, "outcome", outcome)
	}
}

// replayChannelHistory scans past uploads after the bot joins a channel
func (h *Handler) replayChannelHistory(ctx context.Context, channelID string) {
	messages, err := h.client.GetAllMessages(ctx, channelID, "")
	if err != nil {
		slog.Error("Failed to replay channel history", "channel_id", channelID, "error", err)
		return
	}

	candidates := lo.FlatMap(messages, func(msg slack.Message, _ int) []domain.FileCandidate {
		return lo.Map(msg.Files, func(f slack.File, _ int) domain.FileCandidate {
			return fileToCandidate(&f)
		})
	})
	if len(candidates) == 0 {
		return
	}

	outcome, err := h.resolver.Refresh(ctx, channelID, candidates, configurationService.RefreshOptions{
		FromHistory: true,
	})
	if err != nil {
		slog.Error("Configuration refresh from history failed", "channel_id", channelID, "error", err)
		return
	}
	slog.Info("Replayed channel history", "channel_id", channelID, "messages", len(messages), "outcome", outcome)
}

// handleMessage applies the channel's rules to an inbound message
func (h *Handler) handleMessage(ctx context.Context, event *slackevents.MessageEvent) {
	if event.BotID != "" || event.SubType != "" || event.Text == "" {
		return
	}

	channelName, err := h.client.GetChannelInfo(ctx, event.Channel)
	if err != nil {
		slog.Error("Failed to look up channel", "channel_id", event.Channel, "error", err)
		channelName = event.Channel
	}

	conf, err := h.resolver.Ensure(ctx, event.Channel, channelName)
	if err != nil {
		slog.Error("Failed to ensure channel configuration", "channel_id", event.Channel, "error", err)
		return
	}
	if conf == nil || !conf.Loaded || conf.Rules == nil {
		return
	}

	for _, rule := range conf.Rules.Rules {
		if rule.Contains == "" || !strings.Contains(event.Text, rule.Contains) {
			continue
		}
		if rule.Emoji != "" {
			if err := h.client.AddReaction(ctx, event.Channel, rule.Emoji, event.TimeStamp); err != nil {
				slog.Error("Failed to react to message", "channel_id", event.Channel, "emoji", rule.Emoji, "error", err)
			}
		}
		if rule.Text != "" {
			if _, err := h.client.AddComment(ctx, event.Channel, rule.Text, event.TimeStamp); err != nil {
				slog.Error("Failed to comment on message", "channel_id", event.Channel, "error", err)
			}
		}
	}
}
