package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/taskplan/internal/application/dto"
	"github.com/YoshitsuguKoike/taskplan/internal/infrastructure/di"
)

// newTaskCmd creates the task command group
func newTaskCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage standalone tasks",
		Example: `  # Add a task scheduled for 90 minutes
  taskplan task add -n "Write report" --start "2024-09-02 09:00" --duration 90m

  # Mark it done
  taskplan task update 1 --status DONE`,
	}

	cmd.AddCommand(newTaskAddCmd(opts))
	cmd.AddCommand(newTaskUpdateCmd(opts))
	cmd.AddCommand(newTaskListCmd(opts))
	cmd.AddCommand(newTaskShowCmd(opts))
	cmd.AddCommand(newTaskDeleteCmd(opts))
	cmd.AddCommand(newTaskClearCmd(opts))
	return cmd
}

func newTaskAddCmd(opts *rootOptions) *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task (requires --start)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.apply(cmd, dto.ItemRequest{})
			if err != nil {
				return err
			}
			t, err := req.ToTask()
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				id, err := c.GetTaskUseCase().AddTask(ctx, t)
				if err != nil {
					return err
				}
				return opts.printSaved(cmd.OutOrStdout(), "Created task", id)
			})
		},
	}
	flags.register(cmd, true)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTaskUpdateCmd(opts *rootOptions) *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the fields given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				uc := c.GetTaskUseCase()
				current, err := uc.GetTask(ctx, id)
				if err != nil {
					return err
				}
				req, err := flags.apply(cmd, dto.RequestFromItem(current))
				if err != nil {
					return err
				}
				t, err := req.ToTask()
				if err != nil {
					return err
				}
				if err := uc.UpdateTask(ctx, t); err != nil {
					return err
				}
				return opts.printSaved(cmd.OutOrStdout(), "Updated task", id)
			})
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newTaskListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				tasks, err := c.GetTaskUseCase().ListTasks(ctx)
				if err != nil {
					return err
				}
				return opts.printItems(cmd.OutOrStdout(), dto.FromItems(tasks))
			})
		},
	}
}

func newTaskShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				t, err := c.GetTaskUseCase().GetTask(ctx, id)
				if err != nil {
					return err
				}
				return opts.printItem(cmd.OutOrStdout(), dto.FromItem(t))
			})
		},
	}
}

func newTaskDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				if err := c.GetTaskUseCase().DeleteTask(ctx, id); err != nil {
					return err
				}
				return opts.printSaved(cmd.OutOrStdout(), "Deleted task", id)
			})
		},
	}
}

func newTaskClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				return c.GetTaskUseCase().ClearTasks(ctx)
			})
		},
	}
}
