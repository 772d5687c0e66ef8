package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/configwatch/config-slack-bot/internal/modules/configuration/domain"
	"github.com/configwatch/config-slack-bot/internal/modules/configuration/loader"
	"github.com/configwatch/config-slack-bot/internal/modules/configuration/repository"
	"github.com/configwatch/config-slack-bot/internal/modules/configuration/selector"
	"github.com/configwatch/config-slack-bot/internal/shared/config"
	"github.com/samber/oops"
)

// Messenger posts notifications back to the platform
type Messenger interface {
	PostMessage(ctx context.Context, channelID, text string) (string, error)
	PostEphemeral(ctx context.Context, channelID, userID, text string) (string, error)
}

// FileLister lists a channel's uploaded files
type FileLister interface {
	ListFiles(ctx context.Context, channelID string, filetypes []string) ([]domain.FileCandidate, error)
}

// Loader fetches and validates one configuration file
type Loader interface {
	Load(ctx context.Context, candidate domain.FileCandidate) (*domain.RuleSet, error)
}

// Recorder keeps an audit trail of resolution outcomes
type Recorder interface {
	Record(channelID string, outcome domain.ResolutionOutcome, fileTitle, permalink, detail string) error
}

// RefreshOptions control one refresh invocation
type RefreshOptions struct {
	// FromHistory marks a passive replay of past uploads; success
	// notifications are suppressed to avoid spamming the channel on
	// every cold start.
	FromHistory bool
	// ForceCreate discards the cached object and re-evaluates from the
	// winning candidate.
	ForceCreate bool
	// RequesterID, when set, receives a private message with the
	// validation error detail.
	RequesterID string
}

// Service resolves, caches and recovers per-channel configurations
type Service struct {
	cfg       *config.Config
	repo      repository.Repository
	selector  *selector.Selector
	loader    Loader
	messenger Messenger
	files     FileLister
	recorder  Recorder
	locks     channelLocks
}

// New creates a new configuration resolution service
func New(cfg *config.Config, repo repository.Repository, sel *selector.Selector, ld Loader, messenger Messenger, files FileLister, recorder Recorder) *Service {
	return &Service{
		cfg:       cfg,
		repo:      repo,
		selector:  sel,
		loader:    ld,
		messenger: messenger,
		files:     files,
		recorder:  recorder,
	}
}

// Refresh re-evaluates a channel's configuration from the given uploads.
//
// An empty candidate set is a no-op: no cache mutation, no message. On a
// validation failure the failed object occupies the cache slot (unless
// keep_last_good restores the previous loaded one) so repeated invalid
// uploads never silently serve stale rules; the channel gets a public
// notice and the requester a private one. Unclassified loader errors
// propagate untouched. Cache mutation always happens before any message
// is posted.
func (s *Service) Refresh(ctx context.Context, channelID string, files []domain.FileCandidate, opts RefreshOptions) (domain.ResolutionOutcome, error) {
	candidates := s.selector.Select(files)
	if len(candidates) == 0 {
		return domain.ResolutionOutcomeNoCandidates, nil
	}

	// Concurrent refreshes for one channel serialize here; duplicate
	// upload-event deliveries queue instead of racing the store.
	unlock := s.locks.lock(channelID)
	defer unlock()

	slog.Info("Attempting to refresh configuration file", "channel_id", channelID, "candidates", len(candidates))

	previous, err := s.repo.Get(channelID)
	if err != nil {
		return "", oops.With("channel_id", channelID, "context", "failed to read configuration cache").Wrap(err)
	}

	var lastGood *domain.ChannelConfiguration
	if previous != nil && previous.Loaded {
		lastGood = previous.Clone()
	}

	conf := previous.Clone()
	if opts.ForceCreate || conf == nil {
		conf = domain.NewFromCandidate(channelID, candidates[0])
	}

	// The slot is provisionally occupied before the load outcome is known.
	// Stored objects are never mutated in place: every state transition
	// publishes a fresh copy, so a reader holding an earlier pointer sees
	// a frozen snapshot.
	if err := s.repo.Save(conf.Clone()); err != nil {
		return "", oops.With("channel_id", channelID, "context", "failed to store configuration").Wrap(err)
	}

	loadCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.LoadTimeoutSeconds)*time.Second)
	defer cancel()

	rules, err := s.loader.Load(loadCtx, domain.FileCandidate(conf.Source))
	if err != nil {
		kind, recognized := classifyLoadError(err)
		if !recognized {
			return "", err
		}
		return s.handleInvalid(ctx, channelID, conf, lastGood, kind, err, opts)
	}

	conf.Rules = rules
	conf.EntryCount = len(rules.Rules)
	conf.Loaded = true
	conf.LoadedAt = time.Now()
	conf.LoadErr = ""

	if err := s.repo.Save(conf); err != nil {
		return "", oops.With("channel_id", channelID, "context", "failed to store configuration").Wrap(err)
	}

	slog.Info("Configuration file loaded successfully", "channel_id", channelID, "entries", conf.EntryCount)
	s.record(channelID, domain.ResolutionOutcomeLoaded, conf.Source.Title, conf.Source.Permalink, "")

	if !opts.FromHistory {
		text := fmt.Sprintf("ConfigWatch configuration <%s | file> `%s` updated successfully", conf.Source.Permalink, conf.Source.Title)
		if remote := conf.RemoteRepository(); remote != "" {
			text += fmt.Sprintf(". Remote configurations can be found <%s | here>.", remote)
		}
		if _, err := s.messenger.PostMessage(ctx, channelID, text); err != nil {
			return domain.ResolutionOutcomeLoaded, oops.With("channel_id", channelID, "context", "failed to post confirmation").Wrap(err)
		}
	}

	return domain.ResolutionOutcomeLoaded, nil
}

func (s *Service) handleInvalid(ctx context.Context, channelID string, conf, lastGood *domain.ChannelConfiguration, kind string, loadErr error, opts RefreshOptions) (domain.ResolutionOutcome, error) {
	conf.Rules = nil
	conf.EntryCount = 0
	conf.Loaded = false
	conf.LoadErr = loadErr.Error()

	// Default policy keeps the failed object in the slot so repeated bad
	// uploads do not fall back to a stale valid configuration.
	stored := conf
	if s.cfg.KeepLastGood && lastGood != nil {
		stored = lastGood
	}
	if err := s.repo.Save(stored); err != nil {
		return "", oops.With("channel_id", channelID, "context", "failed to store configuration").Wrap(err)
	}

	slog.Warn("Configuration file is invalid", "channel_id", channelID, "kind", kind, "error", loadErr)
	s.record(channelID, domain.ResolutionOutcomeInvalid, conf.Source.Title, conf.Source.Permalink, loadErr.Error())

	if _, err := s.messenger.PostMessage(ctx, channelID, "ConfigWatch configuration file is invalid"); err != nil {
		return domain.ResolutionOutcomeInvalid, oops.With("channel_id", channelID, "context", "failed to post invalid notice").Wrap(err)
	}

	if opts.RequesterID != "" {
		detail := strings.ReplaceAll(loadErr.Error(), "`", "")
		text := fmt.Sprintf("ConfigWatch configuration file is invalid. Full error (%s) message: ```%s```", kind, detail)
		if _, err := s.messenger.PostEphemeral(ctx, channelID, opts.RequesterID, text); err != nil {
			return domain.ResolutionOutcomeInvalid, oops.With("channel_id", channelID, "user_id", opts.RequesterID, "context", "failed to post error detail").Wrap(err)
		}
	}

	return domain.ResolutionOutcomeInvalid, nil
}

// Ensure returns the channel's configuration, replaying uploaded files from
// channel history when nothing is cached. A cache hit is returned as-is
// with no re-validation. When recovery fails too, the channel gets a
// single "invalid or missing" notice and nil is returned without error.
func (s *Service) Ensure(ctx context.Context, channelID, channelName string) (*domain.ChannelConfiguration, error) {
	conf, err := s.repo.Get(channelID)
	if err != nil {
		return nil, oops.With("channel_id", channelID, "context", "failed to read configuration cache").Wrap(err)
	}
	if conf != nil {
		return conf, nil
	}

	files, err := s.files.ListFiles(ctx, channelID, s.cfg.SupportedFiletypes)
	if err != nil {
		return nil, oops.With("channel_id", channelID, "context", "failed to list channel files").Wrap(err)
	}

	outcome, err := s.Refresh(ctx, channelID, files, RefreshOptions{FromHistory: true})
	if err != nil {
		return nil, err
	}
	if outcome == domain.ResolutionOutcomeLoaded {
		slog.Info("Configurations loaded successfully from channel history", "channel_id", channelID)
	}

	conf, err = s.repo.Get(channelID)
	if err != nil {
		return nil, oops.With("channel_id", channelID, "context", "failed to read configuration cache").Wrap(err)
	}
	if conf == nil {
		text := fmt.Sprintf("ConfigWatch configuration file on channel `%s` is invalid or missing. "+
			"Please add or fix the configuration file or remove the bot.", channelName)
		if _, err := s.messenger.PostMessage(ctx, channelID, text); err != nil {
			return nil, oops.With("channel_id", channelID, "context", "failed to post missing notice").Wrap(err)
		}
		return nil, nil
	}

	return conf, nil
}

// Get returns the cached configuration, nil when absent
func (s *Service) Get(channelID string) (*domain.ChannelConfiguration, error) {
	return s.repo.Get(channelID)
}

// GetAll returns every cached channel configuration
func (s *Service) GetAll() ([]*domain.ChannelConfiguration, error) {
	return s.repo.GetAll()
}

// Reset drops a channel's configuration, e.g. when the bot is removed
func (s *Service) Reset(channelID string) error {
	return s.repo.Delete(channelID)
}

func (s *Service) record(channelID string, outcome domain.ResolutionOutcome, fileTitle, permalink, detail string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(channelID, outcome, fileTitle, permalink, detail); err != nil {
		slog.Error("Failed to record resolution event", "channel_id", channelID, "error", err)
	}
}

func classifyLoadError(err error) (string, bool) {
	var syntaxErr *loader.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Kind(), true
	}
	var schemaErr *loader.SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.Kind(), true
	}
	return "", false
}

// channelLocks hands out one mutex per channel id
type channelLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *channelLocks) lock(channelID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[channelID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[channelID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
