// Package app wires configuration, storage, clients, and services into a
// single application core shared by the server binary and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wrenlabs/slate/internal/clients/mailer"
	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/interfaces"
	"github.com/wrenlabs/slate/internal/services/auth"
	"github.com/wrenlabs/slate/internal/services/inquiry"
	"github.com/wrenlabs/slate/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config         *common.Config
	Logger         *common.Logger
	Storage        interfaces.StorageManager
	Mailer         interfaces.MailClient
	AuthService    *auth.Service
	InquiryService *inquiry.Service
	StartupTime    time.Time

	breakglassRetry time.Duration
	done            chan struct{}
	closeOnce       sync.Once
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, the mail client, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	// Load configuration - check provided path, SLATE_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("SLATE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "slate.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/slate.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative embedded-store path to binary directory
	if config.Storage.Badger.Path != "" && !filepath.IsAbs(config.Storage.Badger.Path) {
		config.Storage.Badger.Path = filepath.Join(binDir, config.Storage.Badger.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	mailClient := mailer.NewClient(config.Notify.APIKey,
		mailer.WithBaseURL(config.Notify.BaseURL),
		mailer.WithLogger(logger),
		mailer.WithRateLimit(config.Notify.RateLimit),
		mailer.WithTimeout(config.Notify.GetTimeout()),
	)
	if config.Notify.APIKey == "" {
		logger.Warn().Msg("Email provider API key not configured - notifications will fail")
	}

	a := &App{
		Config:          config,
		Logger:          logger,
		Storage:         storageManager,
		Mailer:          mailClient,
		AuthService:     auth.NewService(storageManager.AccountStore(), logger),
		InquiryService:  inquiry.NewService(storageManager.InquiryStore(), mailClient, &config.Notify, logger),
		StartupTime:     time.Now(),
		breakglassRetry: 15 * time.Second,
		done:            make(chan struct{}),
	}

	// The embedded backend is ready immediately. SurrealDB connects lazily,
	// so its provisioning retries in the background until the database is
	// reachable.
	if config.Storage.Backend == common.StorageBackendBadger {
		if _, err := ensureBreakglassAdmin(context.Background(), storageManager.AccountStore(), logger); err != nil {
			return nil, err
		}
	} else {
		go a.provisionBreakglass()
	}

	return a, nil
}

// provisionBreakglass retries break-glass provisioning until it succeeds or
// the app is closed.
func (a *App) provisionBreakglass() {
	for {
		_, err := ensureBreakglassAdmin(context.Background(), a.Storage.AccountStore(), a.Logger)
		if err == nil {
			return
		}
		a.Logger.Warn().Err(err).Msg("Break-glass provisioning failed, will retry")
		select {
		case <-a.done:
			return
		case <-time.After(a.breakglassRetry):
		}
	}
}

// Close releases application resources.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		if a.done != nil {
			close(a.done)
		}
	})
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
