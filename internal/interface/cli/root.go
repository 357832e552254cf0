package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/taskplan/internal/app/config"
	"github.com/YoshitsuguKoike/taskplan/internal/buildinfo"
	infraConfig "github.com/YoshitsuguKoike/taskplan/internal/infra/config"
	"github.com/YoshitsuguKoike/taskplan/internal/infrastructure/di"
)

// rootOptions holds state shared by every command
type rootOptions struct {
	home     string
	jsonOut  bool
	cfg      config.Config
	diOption di.Options
}

// NewRoot creates the taskplan root command
func NewRoot() *cobra.Command {
	return newRoot(&rootOptions{})
}

func newRoot(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "taskplan",
		Short:         "Plan tasks, epics and subtasks on a shared timeline",
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration before any command runs
			// Priority: ENV > config.yaml > defaults
			baseDir := opts.home
			if baseDir == "" {
				baseDir = infraConfig.ResolveHome()
			}

			cfg, err := infraConfig.LoadSettings(baseDir)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}

	cmd.PersistentFlags().StringVar(&opts.home, "home", "", "Home directory holding config.yaml (default $TASKPLAN_HOME or .taskplan)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Print results as JSON")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newTaskCmd(opts))
	cmd.AddCommand(newEpicCmd(opts))
	cmd.AddCommand(newSubtaskCmd(opts))
	cmd.AddCommand(newPrioritizedCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	return cmd
}

// withContainer opens the configured storage, runs fn and releases the container
func (o *rootOptions) withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *di.Container) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := o.diOption
	if opts.Logger == nil && opts.LogOutput == nil {
		opts.LogOutput = cmd.ErrOrStderr()
	}

	container, err := di.NewContainer(ctx, o.cfg, opts)
	if err != nil {
		return err
	}
	defer container.Close(ctx)

	return fn(ctx, container)
}
