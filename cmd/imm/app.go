package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/amonks/immaculater/internal/config"
	"github.com/amonks/immaculater/internal/logging"
	"github.com/amonks/immaculater/internal/paths"
	"github.com/amonks/immaculater/session"
	"github.com/amonks/immaculater/store"
	"golang.org/x/term"
)

// app is one open list and what the CLI needs around it.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   store.Store
	session *session.Session
}

// loadConfig reads the configuration files and applies the root flags.
func loadConfig() (*config.Config, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}
	if rootBackend != "" {
		cfg.Storage.Backend = rootBackend
	}
	if rootDB != "" {
		cfg.Storage.Path = rootDB
	}
	if rootName != "" {
		cfg.Storage.Name = rootName
	}
	if rootView.alias != "" {
		cfg.View.Default = rootView.alias
	}
	if rootLogLevel != "" {
		cfg.Log.Level = rootLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openApp loads the list and sends command output to out.
func openApp(ctx context.Context, out io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(ctx, store.Options{
		Backend: cfg.Storage.Backend,
		Path:    cfg.Storage.Path,
		Name:    cfg.Storage.Name,
	})
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(ctx, s, session.Options{
		InboxName:               cfg.ToDoList.InboxName,
		SkipWellFormednessCheck: cfg.ToDoList.SkipWellFormednessCheck,
		CompressionLevel:        cfg.Serialization.CompressionLevel,
		Separator:               cfg.ToDoList.Separator,
		ViewAlias:               cfg.View.Default,
		Out:                     out,
		ShowUID:                 rootUIDs,
		Width:                   terminalWidth(),
		Logger:                  logger,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, store: s, session: sess}, nil
}

// save writes the list if it changed and runs the after-save hook.
func (a *app) save(ctx context.Context) error {
	if !a.session.Dirty() {
		return nil
	}
	if err := a.session.Save(ctx); err != nil {
		return err
	}
	if a.cfg.Hooks.AfterSave == "" {
		return nil
	}
	dir := filepath.Dir(a.cfg.Storage.Path)
	a.logger.Debug("running after-save hook", "dir", dir)
	return config.RunScript(dir, a.cfg.Hooks.AfterSave)
}

func (a *app) Close() error {
	return a.store.Close()
}

func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}
