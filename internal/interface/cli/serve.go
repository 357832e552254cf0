package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/taskplan/internal/infrastructure/di"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server
const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API on server.host:server.port.

Every change is saved to the configured storage. When backup.schedule is
set, snapshots are also copied to backup.path on that schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				return serve(ctx, c)
			})
		},
	}
}

func serve(ctx context.Context, c *di.Container) error {
	if err := c.Start(ctx); err != nil {
		return err
	}

	srv := c.GetServer()
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.GetLogger().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
