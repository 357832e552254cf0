package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/taskplan/internal/application/dto"
	"github.com/YoshitsuguKoike/taskplan/internal/infrastructure/di"
)

// newSubtaskCmd creates the subtask command group
func newSubtaskCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage subtasks of epics",
		Example: `  # Add a subtask to epic 2
  taskplan subtask add -e 2 -n "Build" --start "2024-09-02 12:00" --duration 1h

  # Move it to epic 5
  taskplan subtask update 3 --epic 5`,
	}

	cmd.AddCommand(newSubtaskAddCmd(opts))
	cmd.AddCommand(newSubtaskUpdateCmd(opts))
	cmd.AddCommand(newSubtaskListCmd(opts))
	cmd.AddCommand(newSubtaskShowCmd(opts))
	cmd.AddCommand(newSubtaskDeleteCmd(opts))
	cmd.AddCommand(newSubtaskClearCmd(opts))
	return cmd
}

func newSubtaskAddCmd(opts *rootOptions) *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a subtask (requires --epic and --start)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.apply(cmd, dto.ItemRequest{})
			if err != nil {
				return err
			}
			s, err := req.ToSubtask()
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				id, err := c.GetTaskUseCase().AddSubtask(ctx, s)
				if err != nil {
					return err
				}
				return opts.printSaved(cmd.OutOrStdout(), "Created subtask", id)
			})
		},
	}
	flags.register(cmd, true)
	flags.registerEpic(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("epic")
	return cmd
}

func newSubtaskUpdateCmd(opts *rootOptions) *cobra.Command {
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
				current, err := uc.GetSubtask(ctx, id)
				if err != nil {
					return err
				}
				req, err := flags.apply(cmd, dto.RequestFromItem(current))
				if err != nil {
					return err
				}
				s, err := req.ToSubtask()
				if err != nil {
					return err
				}
				if err := uc.UpdateSubtask(ctx, s); err != nil {
					return err
				}
				return opts.printSaved(cmd.OutOrStdout(), "Updated subtask", id)
			})
		},
	}
	flags.register(cmd, true)
	flags.registerEpic(cmd)
	return cmd
}

func newSubtaskListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subtasks by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				subtasks, err := c.GetTaskUseCase().ListSubtasks(ctx)
				if err != nil {
					return err
				}
				return opts.printItems(cmd.OutOrStdout(), dto.FromItems(subtasks))
			})
		},
	}
}

func newSubtaskShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				s, err := c.GetTaskUseCase().GetSubtask(ctx, id)
				if err != nil {
					return err
				}
				return opts.printItem(cmd.OutOrStdout(), dto.FromItem(s))
			})
		},
	}
}

func newSubtaskDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				if err := c.GetTaskUseCase().DeleteSubtask(ctx, id); err != nil {
					return err
				}
				return opts.printSaved(cmd.OutOrStdout(), "Deleted subtask", id)
			})
		},
	}
}

func newSubtaskClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every subtask",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				return c.GetTaskUseCase().ClearSubtasks(ctx)
			})
		},
	}
}
