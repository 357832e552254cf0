package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/taskplan/internal/application/dto"
	"github.com/YoshitsuguKoike/taskplan/internal/infrastructure/di"
	infraConfig "github.com/YoshitsuguKoike/taskplan/internal/infra/config"
)

func newPrioritizedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prioritized",
		Short: "List tasks and subtasks by start time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				items, err := c.GetTaskUseCase().Prioritized(ctx)
				if err != nil {
					return err
				}
				return opts.printItems(cmd.OutOrStdout(), dto.FromItems(items))
			})
		},
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history [id...]",
		Short: "Show the given ids and print the view history",
		Long: `View history is kept in memory by the running process and is not saved.
This command views each id in order (tasks, epics or subtasks) and then
prints the resulting history, oldest first. Use GET /history on a running
server for its live history.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				uc := c.GetTaskUseCase()
				for _, arg := range args {
					id, err := parseID(arg)
					if err != nil {
						return err
					}
					if _, err := uc.GetTask(ctx, id); err == nil {
						continue
					}
					if _, err := uc.GetEpic(ctx, id); err == nil {
						continue
					}
					if _, err := uc.GetSubtask(ctx, id); err != nil {
						return fmt.Errorf("no task, epic or subtask with id %d", id)
					}
				}
				items, err := uc.History(ctx)
				if err != nil {
					return err
				}
				return opts.printItems(cmd.OutOrStdout(), dto.FromItems(items))
			})
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "source:\t%s %s\n", cfg.ConfigSource(), cfg.SettingPath())
			fmt.Fprintf(w, "home:\t%s\n", cfg.Home())
			fmt.Fprintf(w, "addr:\t%s\n", cfg.Addr())
			fmt.Fprintf(w, "history.capacity:\t%d\n", cfg.HistoryCapacity())
			fmt.Fprintf(w, "storage.type:\t%s\n", cfg.StorageType())
			fmt.Fprintf(w, "storage.path:\t%s\n", cfg.StoragePath())
			fmt.Fprintf(w, "storage.sqlite_path:\t%s\n", cfg.SQLitePath())
			fmt.Fprintf(w, "storage.s3:\ts3://%s/%s %s\n", cfg.S3Bucket(), cfg.S3Key(), cfg.S3Region())
			fmt.Fprintf(w, "backup.schedule:\t%s\n", cfg.BackupSchedule())
			fmt.Fprintf(w, "backup.path:\t%s\n", cfg.BackupPath())
			fmt.Fprintf(w, "log.level:\t%s\n", cfg.LogLevel())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Print a config.yaml with every default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(infraConfig.CreateDefaultSettings(opts.cfg.Home()))
			return err
		},
	})
	return cmd
}
