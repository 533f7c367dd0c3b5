package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ankushthakur2007/sqp/internal/cli"
	"github.com/ankushthakur2007/sqp/internal/config"
	"github.com/ankushthakur2007/sqp/internal/db"
	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/install"
	"github.com/ankushthakur2007/sqp/internal/layout"
	"github.com/ankushthakur2007/sqp/internal/logging"
	"github.com/ankushthakur2007/sqp/internal/obs"
	"github.com/ankushthakur2007/sqp/internal/repository"
	"github.com/ankushthakur2007/sqp/internal/service"
	"github.com/ankushthakur2007/sqp/internal/settings"
	"github.com/ankushthakur2007/sqp/internal/thresholds"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	base, err := config.DefaultBase()
	if err != nil {
		return err
	}
	cfgPath := os.Getenv("SQP_CONFIG")
	if cfgPath == "" {
		cfgPath = filepath.Join(base, "config.yaml")
	}
	cfg, err := config.Load(base, cfgPath)
	if err != nil {
		return err
	}

	// The log goes to a file: the terminal belongs to the TUI.
	logger, closeLog, err := logging.NewFile(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()
	metrics := service.NewMetrics()
	observers := []service.UseCaseObserver{service.NewLogUseCaseObserver(logger), metrics}

	if cfg.OTel.Enabled {
		shutdown, err := obs.InitOTLP(ctx)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				logger.Warn("flushing traces", zap.Error(err))
			}
		}()
		observers = append(observers, obs.SpanObserver{})
	}
	observer := service.NewMultiObserver(observers...)

	// Wire the persistence gateway
	var (
		readings repository.ReadingRepo
		uow      db.UnitOfWork
	)
	switch cfg.Storage.Backend {
	case config.BackendBadger:
		repo, err := repository.OpenBadgerReadingRepo(cfg.Storage.BadgerDir, logger)
		if err != nil {
			return fmt.Errorf("opening badger store: %w", err)
		}
		defer repo.Close()
		readings = repo
	default:
		database, err := db.OpenDB(cfg.Storage.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		readings = repository.NewSQLiteReadingRepo(database)
		uow = db.NewSQLiteUnitOfWork(database)
	}

	// Thresholds live in the client-local settings dir; the configured
	// mode wins over the stored one.
	ctrl := thresholds.NewController(settings.NewStore(cfg.Settings.Dir, logger), logger)
	current := ctrl.Load()
	if cfg.Settings.ThresholdMode != "" {
		mode, err := domain.ParseThresholdMode(cfg.Settings.ThresholdMode)
		if err != nil {
			return err
		}
		if current.Mode != mode {
			ctrl.Update(domain.ThresholdPatch{Mode: &mode})
		}
	}
	if w, err := ctrl.Watch(); err != nil {
		logger.Warn("not watching thresholds file", zap.Error(err))
	} else {
		defer w.Close()
	}

	layouts := layout.DefaultRegistry()
	if cfg.UI.Layout == config.LayoutPath {
		layouts = layout.PathRegistry()
	}

	app := &cli.App{
		Repo:       readings,
		Readings:   service.NewReadingService(readings, observer),
		Import:     service.NewImportService(readings, uow, observer),
		Thresholds: ctrl,
		Install:    install.New(cfg.UI.Standalone, logger),
		Metrics:    metrics,
		Observer:   observer,
		Layouts:    layouts,
		Location:   time.Local,
		Log:        logger,
		Addr:       cfg.Server.Addr,
	}

	// Bare `sqp` opens the TUI only on an interactive terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
