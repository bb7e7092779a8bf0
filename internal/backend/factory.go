package backend

import (
	"fmt"
	"log/slog"

	"garasi/internal/config"
	"garasi/internal/filestore"
	"garasi/internal/storage"
)

// Factory creates the configured backing store.
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the store named by config.Type.
func (f *Factory) Create(cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLiteBackend:
		return f.createSQLite(cfg)
	case FileBackend:
		return f.createFile(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *Factory) createSQLite(cfg Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)

	return &Result{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *Factory) createFile(cfg Config) (*Result, error) {
	dataDir := cfg.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	s, err := filestore.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open file store: %w", err)
	}

	f.logger.Info("Initialized file backend", "data_directory", dataDir)

	return &Result{
		Store:   s,
		Cleanup: nil,
	}, nil
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:          backendType,
		DataDirectory: appConfig.DataDirectory,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
	}, nil
}
