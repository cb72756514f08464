package cli

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/config"
	"github.com/sandeepkv93/tasklist/internal/logging"
	"github.com/sandeepkv93/tasklist/internal/notify"
	"github.com/sandeepkv93/tasklist/internal/scheduler"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"github.com/sandeepkv93/tasklist/internal/tasks"
	"github.com/sandeepkv93/tasklist/internal/views"
)

// app holds everything a command needs once configuration is resolved.
type app struct {
	cfg       *config.Config
	logger    *log.Logger
	logCloser io.Closer
	repo      storage.Repository
	store     *tasks.Store
}

// openApp loads configuration, builds the logger and the store, and reads
// the backing file. logOut receives logs when no log file is configured; nil
// discards them.
func openApp(ctx context.Context, flags *globalFlags, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(flags.configPath, flags.overrides())
	if err != nil {
		return nil, err
	}

	opts := logging.DefaultOptions()
	opts.Level = cfg.Log.Level
	opts.Format = cfg.Log.Format
	opts.File = cfg.Log.File
	opts.MaxSizeMB = cfg.Log.MaxSizeMB
	opts.MaxBackups = cfg.Log.MaxBackups
	opts.MaxAgeDays = cfg.Log.MaxAgeDays
	logger, logCloser, err := logging.New(opts, logOut)
	if err != nil {
		return nil, err
	}

	repo, err := storage.Open(cfg.Backend, cfg.DataFile)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	store, err := tasks.New(repo, tasks.WithPolicy(cfg.Policy()), tasks.WithLogger(logger))
	if err != nil {
		_ = repo.Close()
		_ = logCloser.Close()
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, logCloser: logCloser, repo: repo, store: store}
	if err := store.Load(ctx); err != nil {
		var pe *storage.ParseError
		if errors.As(err, &pe) {
			logger.Error("task file is malformed, refusing to start", "path", pe.Path, "location", pe.Location)
		}
		_ = a.Close()
		return nil, err
	}
	logger.Debug("app ready", "backend", cfg.Backend, "data_file", cfg.DataFile, "config", cfg.File)
	return a, nil
}

func (a *app) Close() error {
	return errors.Join(a.repo.Close(), a.logCloser.Close())
}

func (a *app) theme() views.Theme {
	theme, err := views.ParseTheme(a.cfg.Theme)
	if err != nil {
		return views.ThemeLight
	}
	return theme
}

func (a *app) notifier() notify.DesktopNotifier {
	if !a.cfg.Notifications.Desktop {
		return notify.NoopDesktopNotifier{}
	}
	return notify.NewExecDesktopNotifier()
}

func (a *app) newLoop() *scheduler.Loop {
	r := a.cfg.Reminder
	return scheduler.NewLoop(a.store, a.notifier(),
		scheduler.WithInterval(r.Interval),
		scheduler.WithTitle(r.Title),
		scheduler.WithTimeout(r.Timeout),
		scheduler.WithBuffer(r.Buffer),
		scheduler.WithLogger(a.logger),
	)
}
