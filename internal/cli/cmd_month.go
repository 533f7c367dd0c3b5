package cli

import (
	"fmt"
	"strings"

	"github.com/ankushthakur2007/sqp/internal/cli/formatter"
	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/layout"
	"github.com/ankushthakur2007/sqp/internal/service"
	"github.com/spf13/cobra"
)

func newMonthCmd(app *App) *cobra.Command {
	var monthFlag, shapeFlag string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Render a month's readings on the letter panels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := domain.MonthOf(app.now())
			if monthFlag != "" {
				parsed, err := domain.ParseMonth(monthFlag)
				if err != nil {
					return err
				}
				m = parsed
			}

			days, err := app.Readings.ListMonth(cmd.Context(), m)
			if err != nil {
				return err
			}
			view := service.BuildMonthView(m, days, app.Thresholds.Current(), app.layouts())

			panel, err := renderMonthPanel(view, shapeFlag)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, panel)
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.FormatMonthTable(view))
			return nil
		},
	}

	cmd.Flags().StringVar(&monthFlag, "month", "", "Month to show as YYYY-MM (default: current month)")
	cmd.Flags().StringVar(&shapeFlag, "shape", "", "Draw one panel only: S, Q, P, O or cross")

	return cmd
}

func renderMonthPanel(view service.MonthView, shape string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(shape)) {
	case "":
		return formatter.RenderMonth(view, formatter.MonthOptions{}), nil
	case service.ShapeCross:
		return formatter.Header(view.Title) + "\n" +
			formatter.RenderBox("Safety", formatter.RenderCross(view, 0)), nil
	}
	sh, err := layout.ParseShape(shape)
	if err != nil {
		return "", err
	}
	title := layout.MetricFor(sh).Title()
	body := formatter.RenderShape(view.Shapes[string(sh)], 0, formatter.PanelWidth, formatter.PanelHeight)
	return formatter.Header(view.Title) + "\n" + formatter.RenderBox(title, body) + "\n" + formatter.RenderLegend(), nil
}
