package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/andy/focusflow/internal/backup"
	"github.com/andy/focusflow/internal/clock"
	"github.com/andy/focusflow/internal/config"
	"github.com/andy/focusflow/internal/crypto"
	"github.com/andy/focusflow/internal/db"
	"github.com/andy/focusflow/internal/demo"
	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/ident"
	"github.com/andy/focusflow/internal/repository"
	"github.com/andy/focusflow/internal/service"
	"golang.org/x/term"
)

// Options select how the App is built
type Options struct {
	ConfigPath string         // empty means the default path
	Dataset    domain.Dataset // initially active dataset
	LogToFile  bool           // log to the configured file instead of stderr
	Clock      clock.Clock
}

// App is the dependency injection container for all application components
type App struct {
	Config   *config.Config
	DB       *db.DB
	Logger   *slog.Logger
	Location *time.Location
	Clock    clock.Clock

	// Real is the persisted dataset
	Real *service.Workspace

	mu        sync.Mutex
	active    domain.Dataset
	demo      *service.Workspace
	demoRepo  *repository.MemoryTimerRepo
	generator *demo.Generator
	logFile   io.Closer
}

// New creates a new App instance, initializing all dependencies.
// It handles:
// 1. Loading config
// 2. Getting the encryption key from the keyring when encryption is on
// 3. Opening the database
// 4. Running migrations
// 5. Creating repositories and the real workspace
func New(ctx context.Context, opts Options) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg, opts)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Location: loc,
		Clock:    opts.Clock,
		active:   domain.DatasetReal,
	}
	if a.Clock == nil {
		a.Clock = clock.System()
	}

	if err := a.setupLogger(opts.LogToFile); err != nil {
		return nil, err
	}

	password := ""
	if cfg.Database.Encrypted {
		password, err = databaseKey()
		if err != nil {
			a.closeLog()
			return nil, err
		}
	}

	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		a.closeLog()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		a.closeLog()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	a.DB = database

	timerRepo := repository.NewTimerRepo(database, a.Logger)
	historyRepo := repository.NewHistoryRepo(database, a.Logger)
	a.Real = service.NewWorkspace(ctx, domain.DatasetReal, timerRepo, historyRepo, a.serviceOptions())

	a.Logger.Debug("app initialized", "path", cfg.Database.Path, "encrypted", database.Encrypted)

	if opts.Dataset == domain.DatasetDemo {
		a.UseDataset(ctx, domain.DatasetDemo)
	}
	return a, nil
}

func (a *App) serviceOptions() service.Options {
	return service.Options{
		Clock:        a.Clock,
		IDs:          ident.UUID(),
		Logger:       a.Logger,
		Location:     a.Location,
		SyncBaseURL:  a.Config.Sync.BaseURL,
		MaxURLLength: a.Config.Sync.MaxURLLength,
	}
}

func (a *App) setupLogger(toFile bool) error {
	var w io.Writer = os.Stderr
	if toFile && a.Config.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(a.Config.Log.File), 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(a.Config.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		a.logFile = f
	}

	a.Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: a.Config.LogLevel()}))
	return nil
}

func (a *App) closeLog() {
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}

// Dataset returns the active dataset
func (a *App) Dataset() domain.Dataset {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Workspace returns the services of the active dataset
func (a *App) Workspace() *service.Workspace {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active == domain.DatasetDemo && a.demo != nil {
		return a.demo
	}
	return a.Real
}

// UseDataset switches the active dataset. Entering demo mode regenerates
// the demo timers; the real dataset is never touched.
func (a *App) UseDataset(ctx context.Context, ds domain.Dataset) *service.Workspace {
	a.mu.Lock()
	defer a.mu.Unlock()

	if ds != domain.DatasetDemo {
		a.active = domain.DatasetReal
		return a.Real
	}

	now := a.Clock.Now().In(a.Location)
	if a.demo == nil {
		a.generator = demo.New(nil, nil)
		a.demoRepo = repository.NewMemoryTimerRepo(a.generator.Timers(now))
		historyRepo := repository.NewMemoryHistoryRepo(a.generator.History(now))
		a.demo = service.NewWorkspace(ctx, domain.DatasetDemo, a.demoRepo, historyRepo, a.serviceOptions())
	} else if a.active != domain.DatasetDemo {
		if err := a.demoRepo.Save(ctx, a.generator.Timers(now)); err != nil {
			a.Logger.Warn("failed to regenerate demo timers", "error", err)
		}
		a.demo.Store.Reload(ctx)
	}

	a.active = domain.DatasetDemo
	a.Logger.Debug("switched dataset", "dataset", string(ds))
	return a.demo
}

// ToggleDemo flips between the real and demo datasets
func (a *App) ToggleDemo(ctx context.Context) *service.Workspace {
	if a.Dataset() == domain.DatasetDemo {
		return a.UseDataset(ctx, domain.DatasetReal)
	}
	return a.UseDataset(ctx, domain.DatasetDemo)
}

// NewBackuper returns a backup scheduler for the real dataset
func (a *App) NewBackuper() *backup.Backuper {
	return backup.New(backup.Options{
		Dir:      a.Config.Backup.Dir,
		Schedule: a.Config.Backup.Schedule,
		Keep:     a.Config.Backup.Keep,
		Location: a.Location,
	}, a.Real.Store, a.Logger)
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	defer a.closeLog()
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// databaseKey returns the stored key, prompting for a new one on first run
func databaseKey() (string, error) {
	keyring := crypto.NewKeyring()

	password, err := keyring.GetKey()
	if err == nil {
		return password, nil
	}

	fmt.Println("Setting up database encryption for the first time...")
	password, err = promptForPassword()
	if err != nil {
		return "", fmt.Errorf("failed to set password: %w", err)
	}

	if err := keyring.SetKey(password); err != nil {
		return "", fmt.Errorf("failed to store encryption key: %w", err)
	}
	return password, nil
}

// promptForPassword prompts user for a new database password (first run)
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your focus history will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", crypto.ErrEmptyKey
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}
