package cli

import (
	"fmt"

	"github.com/ankushthakur2007/sqp/internal/cli/formatter"
	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/thresholds"
	"github.com/spf13/cobra"
)

func newThresholdsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "thresholds",
		Aliases: []string{"th"},
		Short:   "Show or change the status thresholds",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the active thresholds",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatThresholds(app.Thresholds.Current()))
				return nil
			},
		},
		newThresholdsSetCmd(app),
	)

	return cmd
}

func newThresholdsSetCmd(app *App) *cobra.Command {
	var prodGood, prodAlert, qualGood, qualAlert, target optFloat
	var mode string
	var clearTarget bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more thresholds",
		Long: `Change one or more thresholds. In target mode the production cutoffs
are percentages of --target.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := domain.ThresholdPatch{
				ProductionGood:   prodGood.Ptr(),
				ProductionAlert:  prodAlert.Ptr(),
				QualityGood:      qualGood.Ptr(),
				QualityAlert:     qualAlert.Ptr(),
				ProductionTarget: target.Ptr(),
				ClearTarget:      clearTarget,
			}
			if mode != "" {
				m, err := domain.ParseThresholdMode(mode)
				if err != nil {
					return err
				}
				patch.Mode = &m
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to set; see --help for the flags")
			}
			if err := thresholds.ValidatePatch(app.Thresholds.Current(), patch); err != nil {
				return err
			}

			th := app.Thresholds.Update(patch)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatThresholds(th))
			return nil
		},
	}

	cmd.Flags().Var(&prodGood, "production-good", "Production at or above this is good")
	cmd.Flags().Var(&prodAlert, "production-alert", "Production below this is an alert")
	cmd.Flags().Var(&qualGood, "quality-good", "Quality at or above this is good")
	cmd.Flags().Var(&qualAlert, "quality-alert", "Quality below this is an alert")
	cmd.Flags().Var(&target, "target", "Production target for target mode")
	cmd.Flags().BoolVar(&clearTarget, "clear-target", false, "Remove the production target")
	cmd.Flags().StringVar(&mode, "mode", "", "absolute or target")
	cmd.MarkFlagsMutuallyExclusive("target", "clear-target")

	return cmd
}
