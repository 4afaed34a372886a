package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"omnichat/backend/internal/ai"
	"omnichat/backend/internal/api"
	"omnichat/backend/internal/config"
	"omnichat/backend/internal/conversation"
	"omnichat/backend/internal/database"
	"omnichat/backend/internal/gateway"
	"omnichat/backend/internal/identity"
	"omnichat/backend/internal/llm"
	"omnichat/backend/internal/model"
	"omnichat/backend/internal/realtime"
	"omnichat/backend/internal/repository"
	"omnichat/backend/internal/session"
)

const shutdownTimeout = 10 * time.Second

// App is the assembled server with the resources it owns.
type App struct {
	DB       *sql.DB
	Bus      realtime.Bus
	Sessions *session.Registry
	Server   *http.Server

	sweepInterval time.Duration
}

// NewApp opens the database, connects the change bus and wires every layer
// into an HTTP server. The caller must Close the returned App.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.", "path", cfg.DatabasePath)

	bus, err := newBus(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	gw := gateway.New(repository.NewSQLiteRepository(db), bus)
	dispatcher := ai.NewHTTPDispatcher(cfg.AIEndpointBaseURL)
	sessions := session.NewRegistry(func(ids *identity.Context) *conversation.Manager {
		return conversation.New(ids, gw, dispatcher)
	}, cfg.SessionIdleTTL)

	tokens := identity.NewTokenService(cfg.AuthTokenSecret, cfg.AuthTokenIssuer, cfg.AuthTokenTTL)
	router := api.NewRouter(api.Handlers{
		Provider: api.NewProviderHandler(newCompleters(cfg)),
		Auth:     api.NewAuthHandler(tokens, gw, sessions),
		Session:  api.NewSessionHandler(sessions),
		Tokens:   tokens,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for the event stream
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		DB:            db,
		Bus:           bus,
		Sessions:      sessions,
		Server:        server,
		sweepInterval: cfg.SessionSweepInterval,
	}, nil
}

func newBus(ctx context.Context, cfg *config.Config) (realtime.Bus, error) {
	if cfg.RealtimeBackend != config.RealtimeRedis {
		slog.Info("Using in-process change bus")
		return realtime.NewChannelBus(), nil
	}
	bus, err := realtime.NewRedisBus(ctx, realtime.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Using Redis change bus", "addr", cfg.RedisAddr)
	return bus, nil
}

func newCompleters(cfg *config.Config) *llm.Registry {
	client := &http.Client{Timeout: cfg.UpstreamTimeout}
	reg := llm.NewRegistry()
	reg.Register(model.ProviderChatGPT, llm.NewChatGPT(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, client))
	reg.Register(model.ProviderClaude, llm.NewClaude(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, client))
	reg.Register(model.ProviderGemini, llm.NewGemini(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiPreamble, client))
	reg.Register(model.ProviderGrok, llm.NewGrok(cfg.GrokAPIKey, cfg.GrokBaseURL, cfg.GrokModel, client))

	for _, p := range model.Providers() {
		if key := providerKey(cfg, p); key == "" {
			slog.Warn("AI provider has no API key configured", "provider", p)
		}
	}
	return reg
}

func providerKey(cfg *config.Config, p model.Provider) string {
	switch p {
	case model.ProviderChatGPT:
		return cfg.OpenAIAPIKey
	case model.ProviderClaude:
		return cfg.AnthropicAPIKey
	case model.ProviderGemini:
		return cfg.GeminiAPIKey
	case model.ProviderGrok:
		return cfg.GrokAPIKey
	}
	return ""
}

// Serve runs the HTTP server and the idle-session sweeper until ctx is done,
// then shuts the server down gracefully.
func (a *App) Serve(ctx context.Context) error {
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if a.sweepInterval > 0 {
		go a.Sessions.Run(sweepCtx, a.sweepInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// Closing sessions first ends their event streams.
	a.Sessions.Close()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}

// Close releases the sessions, the bus and the database.
func (a *App) Close() error {
	a.Sessions.Close()
	return errors.Join(a.Bus.Close(), a.DB.Close())
}

// Run configures logging, builds the App for cfg and serves until ctx is
// cancelled. It returns the process exit code.
func Run(ctx context.Context, cfg *config.Config) int {
	SetupLogger(cfg.LogLevel)
	logConfigSource()

	a, err := NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to release resources", "error", err)
		}
	}()

	if err := a.Serve(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		return 1
	}
	slog.Info("Server stopped")
	return 0
}

func logConfigSource() {
	if file := viper.ConfigFileUsed(); file != "" {
		slog.Info("Successfully loaded configuration from file.", "file", file)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

// SetupLogger installs a JSON slog handler at the given level as the default.
func SetupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
