package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"pocketchat/internal/api"
	"pocketchat/internal/config"
	"pocketchat/internal/database"
	"pocketchat/internal/kvstore"
	"pocketchat/internal/llm"
	"pocketchat/internal/repository"
	"pocketchat/internal/service"
)

// storeNamespace prefixes every key in shared backends.
const storeNamespace = "pocketchat"

// App holds the wired application. DB and Redis are nil unless the matching
// storage driver is selected.
type App struct {
	Config   *config.Config
	DB       *sql.DB
	Redis    *redis.Client
	Store    kvstore.Store
	Session  *service.SessionService
	Settings *service.SettingsService
	Models   *service.ModelService
	Server   *http.Server
}

// NewApp opens storage, seeds settings and restores the session. Extra options
// are passed to the session, e.g. a view for the terminal client.
func NewApp(cfg *config.Config, opts ...service.Option) (*App, error) {
	ctx := context.Background()
	a := &App{Config: cfg}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Models = service.NewModelService(cfg.Models(), cfg.DefaultModel)
	a.Settings = service.NewSettingsService(a.Store, a.Models)

	appSettings, err := a.Settings.InitAndGet(ctx, service.Settings{
		SystemPrompt: cfg.InitialSystemPrompt,
		DefaultModel: cfg.DefaultModel,
	})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to initialize application settings: %w", err)
	}
	slog.Info("Loaded application settings", "default_model", appSettings.DefaultModel)

	repo := repository.NewChatRepository(a.Store, cfg.StorageKey)
	completer := llm.NewCompletionClient(provider, a.Settings, cfg.Temperature)
	a.Session = service.NewSessionService(repo, completer, a.Settings, a.Models, opts...)

	if err := a.Session.Start(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to start chat session: %w", err)
	}

	chatHandler := api.NewChatHandler(a.Session, a.Settings)
	modelHandler := api.NewModelHandler(a.Models)
	router := api.NewRouter(chatHandler, modelHandler, cfg.AllowedOrigins())

	a.Server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled: sending a message waits for the completion round trip.
		IdleTimeout:       120 * time.Second,
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	switch a.Config.StorageDriver {
	case config.StorageSQLite, "":
		db, err := database.InitDB(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		slog.Info("Successfully connected to SQLite database.", "path", a.Config.DatabasePath)
		a.DB = db
		a.Store = kvstore.NewSQLiteStore(db, storeNamespace)
	case config.StorageRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.Config.RedisAddr,
			Password: a.Config.RedisPassword,
			DB:       a.Config.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return fmt.Errorf("failed to connect to redis at %s: %w", a.Config.RedisAddr, err)
		}
		slog.Info("Successfully connected to Redis.", "addr", a.Config.RedisAddr)
		a.Redis = rdb
		a.Store = kvstore.NewRedisStore(rdb, storeNamespace)
	case config.StorageFile:
		store, err := kvstore.NewFileStore(a.Config.DataDir, storeNamespace)
		if err != nil {
			return err
		}
		slog.Info("Using file storage.", "dir", a.Config.DataDir)
		a.Store = store
	case config.StorageMemory:
		slog.Warn("Using in-memory storage, chats will not survive a restart.")
		a.Store = kvstore.NewMemoryStore()
	default:
		return fmt.Errorf("unknown storage driver %q", a.Config.StorageDriver)
	}
	return nil
}

func newProvider(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI, "":
		if cfg.OpenAIAPIKey == "" {
			slog.Warn("OPENAI_API_KEY is not set, completion requests will be rejected upstream.")
		}
		slog.Info("Using OpenAI-compatible provider", "base_url", cfg.OpenAIBaseURL, "api_key_set", cfg.OpenAIAPIKey != "")
		return llm.NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey), nil
	case config.ProviderOllama:
		waitCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
		if err := waitForOllama(waitCtx, cfg.OllamaURL); err != nil {
			return nil, err
		}
		return llm.NewOllamaProvider(cfg.OllamaURL), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

// Close releases the storage connections.
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	return errors.Join(errs...)
}

// Run starts the HTTP server and blocks until it stops. It returns the process exit code.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel, os.Stdout, true)
	logConfigSource()

	a, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.AppPort)
		errCh <- a.Server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			return 1
		}
	case <-ctx.Done():
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
			return 1
		}
	}
	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func parseLevel(logLevel string) slog.Level {
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogger(logLevel string, w io.Writer, asJSON bool) {
	opts := &slog.HandlerOptions{Level: parseLevel(logLevel)}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if asJSON {
		handler = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func waitForOllama(ctx context.Context, ollamaURL string) error {
	slog.Info("Waiting for Ollama to be ready...")
	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ollamaURL, nil)
		if err != nil {
			return fmt.Errorf("invalid OLLAMA_URL: %w", err)
		}
		resp, err := client.Do(req)
		if resp != nil {
			if bErr := resp.Body.Close(); bErr != nil {
				slog.Warn("Failed to close response body in ollama health check", "error", bErr)
			}
		}
		if err == nil && resp.StatusCode == http.StatusOK {
			slog.Info("Ollama is ready.")
			return nil
		}
		slog.Debug("Ollama not ready yet, retrying in 3 seconds...", "url", ollamaURL, "error", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("ollama at %s did not become ready: %w", ollamaURL, ctx.Err())
		case <-ticker.C:
		}
	}
}
