package slack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/configwatch/config-slack-bot/internal/modules/configuration/domain"
	sharedErrors "github.com/configwatch/config-slack-bot/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// API is the subset of the Slack Web API the client depends on,
// satisfied by *slack.Client
type API interface {
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)
	AddReactionContext(ctx context.Context, name string, item slack.ItemRef) error
	GetFilesContext(ctx context.Context, params slack.GetFilesParameters) ([]slack.File, *slack.Paging, error)
	GetFileInfoContext(ctx context.Context, fileID string, count, page int) (*slack.File, []slack.Comment, *slack.Paging, error)
	GetConversationInfoContext(ctx context.Context, input *slack.GetConversationInfoInput) (*slack.Channel, error)
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
}

// Client wraps the Slack Web API and Socket Mode connection.
// Identity fields are populated once by Connect and immutable afterward.
type Client struct {
	api      API
	socket   *socketmode.Client
	pageSize int
	maxPages int
	botID    string
	userID   string
	name     string
	orgURL   string
}

// NewClient creates a Socket Mode backed client
func NewClient(botToken, appToken string, pageSize, maxPages int) *Client {
	api := slack.New(botToken, slack.OptionAppLevelToken(appToken))
	socket := socketmode.New(api)

	return &Client{
		api:      api,
		socket:   socket,
		pageSize: pageSize,
		maxPages: maxPages,
	}
}

// newClientWithAPI wires a fake API; used by tests
func newClientWithAPI(api API, pageSize, maxPages int) *Client {
	return &Client{
		api:      api,
		pageSize: pageSize,
		maxPages: maxPages,
	}
}

// Connect performs the auth handshake and fills the bot identity.
// Failure here is fatal for startup.
func (c *Client) Connect(ctx context.Context) error {
	info, err := c.api.AuthTestContext(ctx)
	if err != nil {
		slog.Error("Connection to Slack APIs failed", "error", err)
		return oops.With("context", "slack auth handshake").Wrap(err)
	}

	c.botID = info.BotID
	c.userID = info.UserID
	c.name = info.User
	c.orgURL = info.URL
	slog.Info("Bot authentication complete", "name", c.name, "bot_id", c.botID, "user_id", c.userID)
	return nil
}

func (c *Client) BotID() string  { return c.botID }
func (c *Client) UserID() string { return c.userID }
func (c *Client) Name() string   { return c.name }
func (c *Client) OrgURL() string { return c.orgURL }

// Socket exposes the Socket Mode connection for the event handler
func (c *Client) Socket() *socketmode.Client {
	return c.socket
}

// PostMessage posts a plain message to a channel, returning its timestamp
func (c *Client) PostMessage(ctx context.Context, channelID, text string) (string, error) {
	_, timestamp, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return "", oops.With("channel_id", channelID, "context", "failed to post message").Wrap(err)
	}
	return timestamp, nil
}

// AddComment posts a threaded reply under the given message timestamp
func (c *Client) AddComment(ctx context.Context, channelID, text, threadTS string) (string, error) {
	options := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		options = append(options, slack.MsgOptionTS(threadTS))
	}

	_, timestamp, err := c.api.PostMessageContext(ctx, channelID, options...)
	if err != nil {
		return "", oops.With("channel_id", channelID, "thread_ts", threadTS, "context", "failed to post comment").Wrap(err)
	}
	return timestamp, nil
}

// UpdateMessage edits a previously posted message
func (c *Client) UpdateMessage(ctx context.Context, channelID, timestamp, text string) error {
	_, _, _, err := c.api.UpdateMessageContext(ctx, channelID, timestamp, slack.MsgOptionText(text, false))
	if err != nil {
		return oops.With("channel_id", channelID, "ts", timestamp, "context", "failed to update message").Wrap(err)
	}
	return nil
}

// PostEphemeral posts a message only the given user can see
func (c *Client) PostEphemeral(ctx context.Context, channelID, userID, text string) (string, error) {
	timestamp, err := c.api.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false))
	if err != nil {
		return "", oops.With("channel_id", channelID, "user_id", userID, "context", "failed to post ephemeral message").Wrap(err)
	}
	return timestamp, nil
}

// AddReaction reacts to a message. An unknown emoji name degrades to a
// threaded comment pointing at the configuration; a duplicate reaction is
// ignored. Any other platform error is returned to the caller.
func (c *Client) AddReaction(ctx context.Context, channelID, emoji, timestamp string) error {
	err := c.api.AddReactionContext(ctx, emoji, slack.ItemRef{
		Channel:   channelID,
		Timestamp: timestamp,
	})
	err = classifyReactionError(err)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidReactionName):
		slog.Warn("Invalid configuration on channel", "channel_id", channelID, "reaction", emoji)
		_, err = c.AddComment(ctx, channelID, fmt.Sprintf("Invalid reaction `:%s:`. Please check your configuration file", emoji), timestamp)
		return err
	case errors.Is(err, ErrAlreadyReacted):
		slog.Info("Ignoring duplicate reaction", "emoji", emoji)
		return nil
	}

	return oops.With("channel_id", channelID, "emoji", emoji, "context", "failed to add reaction").Wrap(err)
}

// ListFiles returns the channel's uploaded files of the given filetypes
func (c *Client) ListFiles(ctx context.Context, channelID string, filetypes []string) ([]domain.FileCandidate, error) {
	files, _, err := c.api.GetFilesContext(ctx, slack.GetFilesParameters{
		Channel: channelID,
		Types:   strings.Join(filetypes, ","),
		Count:   c.pageSize,
		Page:    1,
	})
	if err != nil {
		return nil, oops.With("channel_id", channelID, "context", "failed to list channel files").Wrap(err)
	}

	return lo.Map(files, func(f slack.File, _ int) domain.FileCandidate {
		return fileToCandidate(&f)
	}), nil
}

// GetFileInfo resolves a file id to a candidate plus the channels it is
// shared into
func (c *Client) GetFileInfo(ctx context.Context, fileID string) (domain.FileCandidate, []string, error) {
	file, _, _, err := c.api.GetFileInfoContext(ctx, fileID, 0, 0)
	if err != nil {
		return domain.FileCandidate{}, nil, oops.With("file_id", fileID, "context", "failed to get file info").Wrap(err)
	}
	if file == nil {
		return domain.FileCandidate{}, nil, sharedErrors.ErrFileNotFound
	}

	return fileToCandidate(file), file.Channels, nil
}

// GetChannelInfo returns a channel's display name, empty when the lookup fails
func (c *Client) GetChannelInfo(ctx context.Context, channelID string) (string, error) {
	channel, err := c.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{
		ChannelID: channelID,
	})
	if err != nil {
		return "", oops.With("channel_id", channelID, "context", "failed to get channel info").Wrap(err)
	}
	return channel.Name, nil
}

// GetMessages fetches one page of channel history
func (c *Client) GetMessages(ctx context.Context, channelID string, count int, cursor, oldest string) ([]slack.Message, string, error) {
	resp, err := c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     count,
		Cursor:    cursor,
		Oldest:    oldest,
	})
	if err != nil {
		return nil, "", oops.With("channel_id", channelID, "context", "failed to get channel history").Wrap(err)
	}

	return resp.Messages, resp.ResponseMetaData.NextCursor, nil
}

// GetAllMessages walks the channel history cursor until exhaustion. Pages
// must be fetched in order because each cursor comes from the previous
// page. The walk is capped at the configured max page count so a
// misbehaving cursor cannot loop forever.
func (c *Client) GetAllMessages(ctx context.Context, channelID, oldest string) ([]slack.Message, error) {
	var messages []slack.Message
	cursor := ""

	for page := 0; page < c.maxPages; page++ {
		chunk, next, err := c.GetMessages(ctx, channelID, c.pageSize, cursor, oldest)
		if err != nil {
			return nil, err
		}
		messages = append(messages, chunk...)
		if next == "" {
			return messages, nil
		}
		cursor = next
	}

	slog.Warn("Channel history pagination hit the page cap", "channel_id", channelID, "max_pages", c.maxPages)
	return messages, nil
}

func fileToCandidate(file *slack.File) domain.FileCandidate {
	title := file.Title
	if title == "" {
		title = file.Name
	}

	return domain.FileCandidate{
		ID:          file.ID,
		Title:       title,
		Timestamp:   int64(file.Timestamp),
		Permalink:   file.Permalink,
		DownloadURL: file.URLPrivateDownload,
	}
}
