package domain

import "time"

// SourceFile identifies the uploaded file a channel configuration was built from
type SourceFile struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Timestamp   int64  `json:"timestamp"`
	Permalink   string `json:"permalink"`
	DownloadURL string `json:"download_url"`
}

// FileCandidate is an uploaded file considered for promotion to the active
// configuration. Produced per refresh call, never persisted.
type FileCandidate struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Timestamp   int64  `json:"timestamp"`
	Permalink   string `json:"permalink"`
	DownloadURL string `json:"download_url"`
}

// Rule is a single configuration entry. The resolver treats the payload as
// opaque beyond its entry count.
type Rule struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Contains string `json:"contains" yaml:"contains"`
	Emoji    string `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
}

// RuleSet is the parsed, validated payload of a configuration file
type RuleSet struct {
	RemoteRepository string `json:"remote_repository,omitempty" yaml:"remote_repository,omitempty"`
	Rules            []Rule `json:"rules" yaml:"rules"`
}

// ChannelConfiguration is the authoritative configuration of one channel.
// At most one exists per channel id in the store; a refresh always replaces,
// never merges, the prior entry.
type ChannelConfiguration struct {
	ChannelID  string     `json:"channel_id"`
	Source     SourceFile `json:"source"`
	Rules      *RuleSet   `json:"rules,omitempty"`
	EntryCount int        `json:"entry_count"`
	Loaded     bool       `json:"loaded"`
	LoadedAt   time.Time  `json:"loaded_at"`
	LoadErr    string     `json:"load_err,omitempty"`
}

// NewFromCandidate builds an unloaded configuration from the winning candidate
func NewFromCandidate(channelID string, candidate FileCandidate) *ChannelConfiguration {
	return &ChannelConfiguration{
		ChannelID: channelID,
		Source: SourceFile{
			ID:          candidate.ID,
			Title:       candidate.Title,
			Timestamp:   candidate.Timestamp,
			Permalink:   candidate.Permalink,
			DownloadURL: candidate.DownloadURL,
		},
	}
}

// Clone returns a copy safe to hand to another goroutine. The rule
// payload is never mutated after load, so its pointer is shared.
func (c *ChannelConfiguration) Clone() *ChannelConfiguration {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// RemoteRepository returns the external repository URL referenced by the
// payload, empty when absent or not yet loaded.
func (c *ChannelConfiguration) RemoteRepository() string {
	if c.Rules == nil {
		return ""
	}
	return c.Rules.RemoteRepository
}
