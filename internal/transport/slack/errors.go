package slack

import "errors"

// Platform error kinds the client recovers from. The Slack Web API
// reports these as bare error strings; the wrapper converts them to typed
// sentinels so callers never match on strings.
var (
	ErrInvalidReactionName = errors.New("invalid reaction name")
	ErrAlreadyReacted      = errors.New("already reacted")
)

const (
	apiErrInvalidName    = "invalid_name"
	apiErrAlreadyReacted = "already_reacted"
)

// classifyReactionError maps a reactions.add failure onto a typed sentinel,
// or returns it untouched when it is neither recoverable kind
func classifyReactionError(err error) error {
	if err == nil {
		return nil
	}
	switch err.Error() {
	case apiErrInvalidName:
		return ErrInvalidReactionName
	case apiErrAlreadyReacted:
		return ErrAlreadyReacted
	}
	return err
}
