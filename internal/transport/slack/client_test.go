package slack

import (
	"context"
	"errors"
	"testing"

	sharedErrors "github.com/configwatch/config-slack-bot/internal/shared/errors"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyPage struct {
	messages   []slack.Message
	nextCursor string
}

type fakeAPI struct {
	authResp    *slack.AuthTestResponse
	authErr     error
	reactionErr error

	posted        []string // channel ids of chat.postMessage calls
	ephemeralSent int

	pages       []historyPage
	historyErr  error
	seenCursors []string

	files    []slack.File
	fileInfo *slack.File
	channel  *slack.Channel
}

func (f *fakeAPI) AuthTestContext(context.Context) (*slack.AuthTestResponse, error) {
	return f.authResp, f.authErr
}

func (f *fakeAPI) PostMessageContext(_ context.Context, channelID string, _ ...slack.MsgOption) (string, string, error) {
	f.posted = append(f.posted, channelID)
	return channelID, "1700000000.000100", nil
}

func (f *fakeAPI) PostEphemeralContext(_ context.Context, _, _ string, _ ...slack.MsgOption) (string, error) {
	f.ephemeralSent++
	return "1700000000.000200", nil
}

func (f *fakeAPI) UpdateMessageContext(_ context.Context, channelID, timestamp string, _ ...slack.MsgOption) (string, string, string, error) {
	return channelID, timestamp, "", nil
}

func (f *fakeAPI) AddReactionContext(context.Context, string, slack.ItemRef) error {
	return f.reactionErr
}

func (f *fakeAPI) GetFilesContext(context.Context, slack.GetFilesParameters) ([]slack.File, *slack.Paging, error) {
	return f.files, &slack.Paging{Page: 1, Pages: 1}, nil
}

func (f *fakeAPI) GetFileInfoContext(context.Context, string, int, int) (*slack.File, []slack.Comment, *slack.Paging, error) {
	return f.fileInfo, nil, nil, nil
}

func (f *fakeAPI) GetConversationInfoContext(context.Context, *slack.GetConversationInfoInput) (*slack.Channel, error) {
	return f.channel, nil
}

func (f *fakeAPI) GetConversationHistoryContext(_ context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}

	f.seenCursors = append(f.seenCursors, params.Cursor)

	page := historyPage{}
	if len(f.pages) > 0 {
		page = f.pages[0]
		f.pages = f.pages[1:]
	}

	resp := &slack.GetConversationHistoryResponse{Messages: page.messages}
	resp.ResponseMetaData.NextCursor = page.nextCursor
	return resp, nil
}

func message(text string) slack.Message {
	return slack.Message{Msg: slack.Msg{Text: text}}
}

func TestConnectSetsIdentity(t *testing.T) {
	api := &fakeAPI{authResp: &slack.AuthTestResponse{
		URL:    "https://example.slack.com/",
		User:   "configwatch",
		UserID: "U1",
		BotID:  "B1",
	}}
	c := newClientWithAPI(api, 20, 50)

	require.NoError(t, c.Connect(context.Background()))
	assert.Equal(t, "B1", c.BotID())
	assert.Equal(t, "U1", c.UserID())
	assert.Equal(t, "configwatch", c.Name())
	assert.Equal(t, "https://example.slack.com/", c.OrgURL())
}

func TestConnectFailureIsFatal(t *testing.T) {
	api := &fakeAPI{authErr: errors.New("invalid_auth")}
	c := newClientWithAPI(api, 20, 50)

	assert.Error(t, c.Connect(context.Background()))
}

func TestAddReactionInvalidNameFallsBackToComment(t *testing.T) {
	api := &fakeAPI{reactionErr: errors.New("invalid_name")}
	c := newClientWithAPI(api, 20, 50)

	err := c.AddReaction(context.Background(), "C1", "bad::name", "1700000000.000100")
	require.NoError(t, err)
	assert.Equal(t, []string{"C1"}, api.posted)
}

func TestAddReactionAlreadyReactedIsIgnored(t *testing.T) {
	api := &fakeAPI{reactionErr: errors.New("already_reacted")}
	c := newClientWithAPI(api, 20, 50)

	err := c.AddReaction(context.Background(), "C1", "white_check_mark", "1700000000.000100")
	require.NoError(t, err)
	assert.Empty(t, api.posted)
}

func TestAddReactionOtherErrorsPropagate(t *testing.T) {
	api := &fakeAPI{reactionErr: errors.New("fatal_error")}
	c := newClientWithAPI(api, 20, 50)

	err := c.AddReaction(context.Background(), "C1", "white_check_mark", "1700000000.000100")
	require.Error(t, err)
	assert.Empty(t, api.posted)
}

func TestAddReactionSuccess(t *testing.T) {
	api := &fakeAPI{}
	c := newClientWithAPI(api, 20, 50)

	require.NoError(t, c.AddReaction(context.Background(), "C1", "white_check_mark", "1700000000.000100"))
	assert.Empty(t, api.posted)
}

func TestGetAllMessagesPagination(t *testing.T) {
	tests := []struct {
		name      string
		pages     []historyPage
		wantTexts []string
		wantCalls []string
	}{
		{
			name:      "zero pages",
			pages:     []historyPage{{}},
			wantTexts: nil,
			wantCalls: []string{""},
		},
		{
			name: "one page",
			pages: []historyPage{
				{messages: []slack.Message{message("a"), message("b")}},
			},
			wantTexts: []string{"a", "b"},
			wantCalls: []string{""},
		},
		{
			name: "three pages",
			pages: []historyPage{
				{messages: []slack.Message{message("a")}, nextCursor: "c1"},
				{messages: []slack.Message{message("b")}, nextCursor: "c2"},
				{messages: []slack.Message{message("c")}},
			},
			wantTexts: []string{"a", "b", "c"},
			wantCalls: []string{"", "c1", "c2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{pages: tt.pages}
			c := newClientWithAPI(api, 20, 50)

			got, err := c.GetAllMessages(context.Background(), "C1", "")
			require.NoError(t, err)

			var texts []string
			for _, m := range got {
				texts = append(texts, m.Text)
			}
			assert.Equal(t, tt.wantTexts, texts)
			assert.Equal(t, tt.wantCalls, api.seenCursors)
		})
	}
}

func TestGetAllMessagesHitsPageCap(t *testing.T) {
	// every page advertises a next cursor; the walk must still terminate
	api := &fakeAPI{pages: []historyPage{
		{messages: []slack.Message{message("a")}, nextCursor: "c1"},
		{messages: []slack.Message{message("b")}, nextCursor: "c2"},
		{messages: []slack.Message{message("c")}, nextCursor: "c3"},
	}}
	c := newClientWithAPI(api, 20, 2)

	got, err := c.GetAllMessages(context.Background(), "C1", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Len(t, api.seenCursors, 2)
}

func TestGetAllMessagesPropagatesErrors(t *testing.T) {
	api := &fakeAPI{historyErr: errors.New("channel_not_found")}
	c := newClientWithAPI(api, 20, 50)

	_, err := c.GetAllMessages(context.Background(), "C1", "")
	assert.Error(t, err)
}

func TestListFilesMapsCandidates(t *testing.T) {
	api := &fakeAPI{files: []slack.File{
		{
			ID:                 "F1",
			Title:              "configwatch.yaml",
			Timestamp:          slack.JSONTime(100),
			Permalink:          "https://example.slack.com/files/F1",
			URLPrivateDownload: "https://files.slack.com/F1",
		},
		{
			ID:        "F2",
			Name:      "untitled.yaml",
			Timestamp: slack.JSONTime(200),
		},
	}}
	c := newClientWithAPI(api, 20, 50)

	got, err := c.ListFiles(context.Background(), "C1", []string{"yaml"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "configwatch.yaml", got[0].Title)
	assert.Equal(t, int64(100), got[0].Timestamp)
	assert.Equal(t, "https://files.slack.com/F1", got[0].DownloadURL)
	// display title falls back to the file name
	assert.Equal(t, "untitled.yaml", got[1].Title)
}

func TestGetFileInfo(t *testing.T) {
	api := &fakeAPI{fileInfo: &slack.File{
		ID:        "F1",
		Title:     "configwatch.yaml",
		Timestamp: slack.JSONTime(100),
		Channels:  []string{"C1", "C2"},
	}}
	c := newClientWithAPI(api, 20, 50)

	candidate, channels, err := c.GetFileInfo(context.Background(), "F1")
	require.NoError(t, err)
	assert.Equal(t, "F1", candidate.ID)
	assert.Equal(t, []string{"C1", "C2"}, channels)
}

func TestGetFileInfoMissing(t *testing.T) {
	api := &fakeAPI{}
	c := newClientWithAPI(api, 20, 50)

	_, _, err := c.GetFileInfo(context.Background(), "F404")
	assert.ErrorIs(t, err, sharedErrors.ErrFileNotFound)
}
