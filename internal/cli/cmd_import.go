package cli

import (
	"fmt"

	"github.com/ankushthakur2007/sqp/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import readings from a YAML or JSON file",
		Long: `Import readings from a YAML or JSON file of the form

  entries:
    - date: 2025-03-05
      production: 4500
      quality: 97
      safety_status: safe

An entry with only a date clears that day. The whole file is applied in
one transaction; nothing is written if any entry is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := func() {}
			if app.IsInteractive != nil && app.IsInteractive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Importing "+args[0])
			}

			result, err := app.Import.ImportFile(cmd.Context(), args[0])
			stop()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d readings, cleared %d days\n",
				formatter.StyleGreen.Render("✔"), result.Upserted, result.Cleared)
			return nil
		},
	}
}
