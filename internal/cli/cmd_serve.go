package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/ankushthakur2007/sqp/internal/install"
	"github.com/ankushthakur2007/sqp/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and websocket push channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", addr, err)
			}
			return serve(ctx, app, ln)
		},
	}

	def := app.Addr
	if def == "" {
		def = ":8080"
	}
	cmd.Flags().StringVar(&addr, "addr", def, "Listen address")

	return cmd
}

func serve(ctx context.Context, app *App, ln net.Listener) error {
	inst := app.Install
	if inst == nil {
		inst = install.New(false, app.logger())
	}
	srv := server.New(app.Readings, app.Thresholds, inst, app.Metrics, app.logger())
	srv.Layouts = app.layouts()
	fmt.Fprintf(os.Stderr, "sqp listening on http://%s\n", ln.Addr())
	return srv.Run(ctx, ln)
}
