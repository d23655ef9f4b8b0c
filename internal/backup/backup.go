// Package backup writes periodic snapshot files of a dataset on a cron
// schedule and prunes old ones.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/snapshot"
	"github.com/robfig/cron/v3"
)

const (
	filePrefix = "focusflow-"
	fileSuffix = ".json"
	stampFmt   = "20060102T150405.000"
)

// Source supplies the collections to back up. Reload is called before every
// run so writes made by other processes are included.
type Source interface {
	Reload(ctx context.Context)
	Snapshot() ([]domain.Timer, []domain.HistoryItem, time.Time)
}

type Options struct {
	Dir      string
	Schedule string
	Keep     int
	Location *time.Location
}

// Backuper writes snapshot files into a directory
type Backuper struct {
	opts   Options
	source Source
	logger *slog.Logger
	cron   *cron.Cron
}

func New(opts Options, source Source, logger *slog.Logger) *Backuper {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Backuper{opts: opts, source: source, logger: logger}
}

// RunOnce writes one snapshot file and prunes the directory. It returns the
// path written.
func (b *Backuper) RunOnce(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(b.opts.Dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	b.source.Reload(ctx)
	timers, history, now := b.source.Snapshot()
	data, err := snapshot.Marshal(snapshot.Snapshot{Timers: timers, History: history, ExportedAt: now})
	if err != nil {
		return "", err
	}

	name := filePrefix + now.UTC().Format(stampFmt) + fileSuffix
	path := filepath.Join(b.opts.Dir, name)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize backup: %w", err)
	}

	b.logger.Info("backup written", "path", path, "timers", len(timers), "history", len(history))

	if err := b.prune(); err != nil {
		b.logger.Warn("failed to prune backups", "error", err)
	}
	return path, nil
}

// Start schedules RunOnce on the configured cron expression
func (b *Backuper) Start(ctx context.Context) error {
	b.cron = cron.New(cron.WithLocation(b.opts.Location))

	_, err := b.cron.AddFunc(b.opts.Schedule, func() {
		b.logger.Debug("running scheduled backup", "schedule", b.opts.Schedule)
		if _, err := b.RunOnce(ctx); err != nil {
			b.logger.Error("scheduled backup failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", b.opts.Schedule, err)
	}

	b.logger.Info("scheduled backups", "schedule", b.opts.Schedule, "dir", b.opts.Dir, "timezone", b.opts.Location.String())
	b.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running backup to finish
func (b *Backuper) Stop() {
	if b.cron != nil {
		<-b.cron.Stop().Done()
	}
}

// Next returns the next scheduled run, or the zero time when not started
func (b *Backuper) Next() time.Time {
	if b.cron == nil {
		return time.Time{}
	}
	entries := b.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// List returns the backup files in the directory, oldest first
func (b *Backuper) List() ([]string, error) {
	entries, err := os.ReadDir(b.opts.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		files = append(files, filepath.Join(b.opts.Dir, name))
	}
	// timestamps sort lexically
	sort.Strings(files)
	return files, nil
}

func (b *Backuper) prune() error {
	if b.opts.Keep <= 0 {
		return nil
	}
	files, err := b.List()
	if err != nil {
		return err
	}
	for len(files) > b.opts.Keep {
		if err := os.Remove(files[0]); err != nil {
			return err
		}
		b.logger.Debug("pruned backup", "path", files[0])
		files = files[1:]
	}
	return nil
}
