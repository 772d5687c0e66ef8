package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	auditService "github.com/configwatch/config-slack-bot/internal/modules/audit/service"
	configurationService "github.com/configwatch/config-slack-bot/internal/modules/configuration/service"
	"github.com/configwatch/config-slack-bot/internal/shared/config"
	sloghttp "github.com/samber/slog-http"
)

// Server exposes the operational HTTP surface: health, per-channel
// configuration status and resolution event feeds
type Server struct {
	cfg      *config.Config
	resolver *configurationService.Service
	audit    *auditService.Service
	logger   *slog.Logger
}

// New creates a new HTTP server
func New(cfg *config.Config, resolver *configurationService.Service, audit *auditService.Service) *Server {
	return &Server{
		cfg:      cfg,
		resolver: resolver,
		audit:    audit,
		logger:   slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /channels/{channelID}/configuration", s.handleChannelConfiguration)
	mux.HandleFunc("GET /feeds/{channelID}", s.handleEventFeed)
	mux.HandleFunc("GET /health", s.handleHealth)

	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("HTTP server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

type channelStatus struct {
	ChannelID  string `json:"channel_id"`
	Loaded     bool   `json:"loaded"`
	EntryCount int    `json:"entry_count"`
	FileTitle  string `json:"file_title,omitempty"`
	Timestamp  int64  `json:"timestamp,omitempty"`
	LoadErr    string `json:"load_err,omitempty"`
}

func (s *Server) handleChannelConfiguration(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("channelID")
	if channelID == "" {
		http.Error(w, "Channel ID is required", http.StatusBadRequest)
		return
	}

	conf, err := s.resolver.Get(channelID)
	if err != nil {
		s.logger.Error("Error reading configuration", "channel_id", channelID, "error", err)
		http.Error(w, "Failed to read configuration", http.StatusInternalServerError)
		return
	}
	if conf == nil {
		http.Error(w, "No configuration for channel", http.StatusNotFound)
		return
	}

	status := channelStatus{
		ChannelID:  conf.ChannelID,
		Loaded:     conf.Loaded,
		EntryCount: conf.EntryCount,
		FileTitle:  conf.Source.Title,
		Timestamp:  conf.Source.Timestamp,
		LoadErr:    conf.LoadErr,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Error("Error encoding status", "channel_id", channelID, "error", err)
	}
}

func (s *Server) handleEventFeed(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("channelID")
	if channelID == "" {
		http.Error(w, "Channel ID is required", http.StatusBadRequest)
		return
	}

	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)

	feed, err := s.audit.GenerateFeed(channelID, baseURL)
	if err != nil {
		s.logger.Error("Error generating feed", "channel_id", channelID, "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
