package errors

import "errors"

var (
	ErrMissingBotToken = errors.New("SLACK_BOT_TOKEN is required")
	ErrMissingAppToken = errors.New("SLACK_APP_TOKEN is required")
	ErrFileNotFound    = errors.New("file not found")
)
