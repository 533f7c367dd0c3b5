package cli

import (
	"context"
	"fmt"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive month view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}
}

// newSharedState builds the month store the TUI reads and writes through.
func newSharedState(app *App) *SharedState {
	store := service.NewMonthStore(app.Repo, app.logger(),
		service.WithLocation(app.location()),
		service.WithObserver(app.Observer),
		service.WithMetrics(app.Metrics),
	)
	return &SharedState{App: app, Store: store}
}

func runTUI(ctx context.Context, app *App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if app.Repo == nil {
		return fmt.Errorf("tui: no reading store configured")
	}

	state := newSharedState(app)
	p := tea.NewProgram(newAppModel(state),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	// Threshold edits from another process arrive through the settings
	// watcher on its own goroutine.
	app.Thresholds.OnChange(func(domain.Thresholds) {
		p.Send(refreshViewMsg{})
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
