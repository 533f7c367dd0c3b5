package cli

import (
	"time"

	"github.com/ankushthakur2007/sqp/internal/install"
	"github.com/ankushthakur2007/sqp/internal/layout"
	"github.com/ankushthakur2007/sqp/internal/repository"
	"github.com/ankushthakur2007/sqp/internal/service"
	"github.com/ankushthakur2007/sqp/internal/thresholds"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds the services and settings used by CLI commands and the TUI.
type App struct {
	// Repo backs the TUI's month store; commands go through Readings.
	Repo       repository.ReadingRepo
	Readings   service.ReadingService
	Import     service.ImportService
	Thresholds *thresholds.Controller
	Install    *install.Affordance
	Metrics    *service.Metrics
	Observer   service.UseCaseObserver
	Layouts    layout.Registry
	Location   *time.Location
	Log        *zap.Logger

	// Addr is the default listen address for serve.
	Addr string

	// IsInteractive reports whether stdin is a terminal. The bare root
	// command opens the TUI only when it is.
	IsInteractive func() bool

	// Now is the clock used for "today" and the initial month.
	Now func() time.Time
}

func (a *App) now() time.Time {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return now().In(a.location())
}

func (a *App) location() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.Local
}

func (a *App) logger() *zap.Logger {
	if a.Log != nil {
		return a.Log
	}
	return zap.NewNop()
}

func (a *App) layouts() layout.Registry {
	if a.Layouts != nil {
		return a.Layouts
	}
	return layout.DefaultRegistry()
}

// NewRootCmd creates the top-level "sqp" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "sqp",
		Short:         "Daily safety, quality and production tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newMonthCmd(app),
		newDayCmd(app),
		newThresholdsCmd(app),
		newImportCmd(app),
		newServeCmd(app),
		newTUICmd(app),
	)

	return root
}
