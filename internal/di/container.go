package di

import (
	"log/slog"
	"time"

	auditRepo "github.com/configwatch/config-slack-bot/internal/modules/audit/repository"
	auditService "github.com/configwatch/config-slack-bot/internal/modules/audit/service"
	"github.com/configwatch/config-slack-bot/internal/modules/configuration/loader"
	configurationRepo "github.com/configwatch/config-slack-bot/internal/modules/configuration/repository"
	"github.com/configwatch/config-slack-bot/internal/modules/configuration/selector"
	configurationService "github.com/configwatch/config-slack-bot/internal/modules/configuration/service"
	"github.com/configwatch/config-slack-bot/internal/shared/config"
	httpServer "github.com/configwatch/config-slack-bot/internal/transport/http"
	slackTransport "github.com/configwatch/config-slack-bot/internal/transport/slack"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// eventLogCapacity bounds the per-channel resolution event log
const eventLogCapacity = 50

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Configuration Repository
	do.Provide(injector, func(i do.Injector) (configurationRepo.Repository, error) {
		return configurationRepo.NewMemoryStorage(), nil
	})

	// Register Audit Repository
	do.Provide(injector, func(i do.Injector) (auditRepo.Repository, error) {
		return auditRepo.NewMemoryStorage(eventLogCapacity), nil
	})

	// Register Audit Service
	do.Provide(injector, func(i do.Injector) (*auditService.Service, error) {
		repo := do.MustInvoke[auditRepo.Repository](i)
		return auditService.New(repo), nil
	})

	// Register Candidate Selector
	do.Provide(injector, func(i do.Injector) (*selector.Selector, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return selector.New(cfg.ConfigFilePrefix), nil
	})

	// Register Configuration Loader
	do.Provide(injector, func(i do.Injector) (*loader.Loader, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ld, err := loader.New(cfg.SlackBotToken, time.Duration(cfg.LoadTimeoutSeconds)*time.Second)
		if err != nil {
			return nil, oops.With("context", "failed to create configuration loader").Wrap(err)
		}
		return ld, nil
	})

	// Register Slack Client
	do.Provide(injector, func(i do.Injector) (*slackTransport.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return slackTransport.NewClient(cfg.SlackBotToken, cfg.SlackAppToken, cfg.HistoryPageSize, cfg.HistoryMaxPages), nil
	})

	// Register Configuration Service
	do.Provide(injector, func(i do.Injector) (*configurationService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[configurationRepo.Repository](i)
		sel := do.MustInvoke[*selector.Selector](i)
		ld := do.MustInvoke[*loader.Loader](i)
		client := do.MustInvoke[*slackTransport.Client](i)
		audit := do.MustInvoke[*auditService.Service](i)
		return configurationService.New(cfg, repo, sel, ld, client, client, audit), nil
	})

	// Register Slack Handler
	do.Provide(injector, func(i do.Injector) (*slackTransport.Handler, error) {
		client := do.MustInvoke[*slackTransport.Client](i)
		resolver := do.MustInvoke[*configurationService.Service](i)
		return slackTransport.NewHandler(client, resolver), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		resolver := do.MustInvoke[*configurationService.Service](i)
		audit := do.MustInvoke[*auditService.Service](i)
		server := httpServer.New(cfg, resolver, audit)
		server.SetLogger(slog.Default())
		return server, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	return injector.Shutdown()
}
