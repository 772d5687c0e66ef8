package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/configwatch/config-slack-bot/internal/modules/configuration/domain"
	"github.com/configwatch/config-slack-bot/internal/shared/errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	SlackBotToken      string        `koanf:"slack_bot_token"`
	SlackAppToken      string        `koanf:"slack_app_token"`
	ConfigFilePrefix   string        `koanf:"config_file_prefix"`
	SupportedFiletypes []string      `koanf:"supported_filetypes"`
	HistoryPageSize    int           `koanf:"history_page_size"`
	HistoryMaxPages    int           `koanf:"history_max_pages"`
	LoadTimeoutSeconds int           `koanf:"load_timeout_seconds"`
	KeepLastGood       bool          `koanf:"keep_last_good"`
	HTTPPort           string        `koanf:"http_port"`
	AppEnv             domain.AppEnv `koanf:"app_env"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("config_file_prefix") {
		k.Set("config_file_prefix", "configwatch")
	}
	if !k.Exists("supported_filetypes") {
		k.Set("supported_filetypes", []string{"yaml"})
	}
	if !k.Exists("history_page_size") {
		k.Set("history_page_size", 20)
	}
	if !k.Exists("history_max_pages") {
		k.Set("history_max_pages", 50)
	}
	if !k.Exists("load_timeout_seconds") {
		k.Set("load_timeout_seconds", 30)
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Filetypes may come in as a comma-separated string from the environment
	if filetypes := k.Get("supported_filetypes"); filetypes != nil {
		switch v := filetypes.(type) {
		case string:
			cfg.SupportedFiletypes = ParseFiletypes(v)
		case []interface{}:
			cfg.SupportedFiletypes = lo.FilterMap(v, func(item interface{}, _ int) (string, bool) {
				s, ok := item.(string)
				return s, ok && s != ""
			})
		}
	}

	// Parse AppEnv from string if needed
	if appEnvStr := k.String("app_env"); appEnvStr != "" {
		if env, err := domain.ParseAppEnv(appEnvStr); err == nil {
			cfg.AppEnv = env
		} else {
			cfg.AppEnv = domain.AppEnvProduction
		}
	} else {
		cfg.AppEnv = domain.AppEnvProduction
	}

	// Validate required fields
	if cfg.SlackBotToken == "" {
		return nil, errors.ErrMissingBotToken
	}
	if cfg.SlackAppToken == "" {
		return nil, errors.ErrMissingAppToken
	}

	return &cfg, nil
}

// ParseFiletypes parses a comma-separated filetype list into a slice
func ParseFiletypes(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	})
}
