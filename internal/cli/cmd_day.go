package cli

import (
	"errors"
	"fmt"

	"github.com/ankushthakur2007/sqp/internal/classify"
	"github.com/ankushthakur2007/sqp/internal/cli/formatter"
	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/repository"
	"github.com/ankushthakur2007/sqp/internal/service"
	"github.com/spf13/cobra"
)

func newDayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show, record or clear one day's readings",
	}

	cmd.AddCommand(
		newDayShowCmd(app),
		newDaySetCmd(app),
		newDayClearCmd(app),
	)

	return cmd
}

func newDayShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show DATE",
		Short: "Show a day's readings and statuses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(app, args[0])
			if err != nil {
				return err
			}
			entry, err := app.Readings.Get(cmd.Context(), date)
			var reading *domain.Reading
			switch {
			case errors.Is(err, repository.ErrNotFound):
			case err != nil:
				return err
			default:
				reading = &entry.Reading
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatDaySummary(dayView(date, reading, app.Thresholds.Current())))
			if entry != nil && !entry.UpdatedAt.IsZero() {
				fmt.Fprintln(out, formatter.Dim("  updated "+formatter.HumanTimestamp(entry.UpdatedAt, app.now())))
			}
			return nil
		},
	}
}

func newDaySetCmd(app *App) *cobra.Command {
	var production, quality optFloat
	var safety string

	cmd := &cobra.Command{
		Use:   "set DATE",
		Short: "Record readings for a day",
		Long: `Record readings for a day. Only the given flags change; other values
already stored for the day are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(app, args[0])
			if err != nil {
				return err
			}
			if production.v == nil && quality.v == nil && safety == "" {
				return fmt.Errorf("nothing to set: pass --production, --quality or --safety")
			}

			var current domain.Reading
			entry, err := app.Readings.Get(cmd.Context(), date)
			switch {
			case errors.Is(err, repository.ErrNotFound):
			case err != nil:
				return err
			default:
				current = entry.Reading.Clone()
			}

			if p := production.Ptr(); p != nil {
				current.Production = p
			}
			if q := quality.Ptr(); q != nil {
				current.Quality = q
			}
			if safety != "" {
				s, err := domain.ParseSafetyStatus(safety)
				if err != nil {
					return err
				}
				current.Safety = s.Ptr()
			}
			if err := current.Validate(); err != nil {
				return err
			}

			if err := app.Readings.Save(cmd.Context(), date, current); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %s\n", formatter.StyleGreen.Render("✔"), formatter.Bold(date.String()))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDaySummary(dayView(date, &current, app.Thresholds.Current())))
			return nil
		},
	}

	cmd.Flags().Var(&production, "production", "Units produced")
	cmd.Flags().Var(&quality, "quality", "Quality percentage")
	cmd.Flags().StringVar(&safety, "safety", "", "Safety status: safe, recordable or lost-time")

	return cmd
}

func newDayClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear DATE",
		Short: "Remove all readings for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(app, args[0])
			if err != nil {
				return err
			}
			if err := app.Readings.Save(cmd.Context(), date, domain.Reading{}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Cleared %s\n", formatter.StyleGreen.Render("✔"), formatter.Bold(date.String()))
			return nil
		},
	}
}

// dayView classifies a single day outside of a month view.
func dayView(date domain.Date, r *domain.Reading, th domain.Thresholds) service.DayView {
	return service.DayView{
		Day:     date.Day,
		Date:    date.String(),
		Reading: r,
		Status:  classify.All(r, th),
	}
}
