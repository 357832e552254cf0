package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/taskplan/internal/application/dto"
	"github.com/YoshitsuguKoike/taskplan/internal/infrastructure/di"
)

// newEpicCmd creates the epic command group
func newEpicCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epic",
		Short: "Manage epics",
		Long: `Manage epics.

An epic's status and time span follow its subtasks: it is DONE when every
subtask is DONE, NEW when all are NEW (or it has none) and IN_PROGRESS
otherwise.`,
	}

	cmd.AddCommand(newEpicAddCmd(opts))
	cmd.AddCommand(newEpicUpdateCmd(opts))
	cmd.AddCommand(newEpicListCmd(opts))
	cmd.AddCommand(newEpicShowCmd(opts))
	cmd.AddCommand(newEpicSubtasksCmd(opts))
	cmd.AddCommand(newEpicDeleteCmd(opts))
	cmd.AddCommand(newEpicClearCmd(opts))
	return cmd
}

func newEpicAddCmd(opts *rootOptions) *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an epic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.apply(cmd, dto.ItemRequest{})
			if err != nil {
				return err
			}
			e, err := req.ToEpic()
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				id, err := c.GetTaskUseCase().AddEpic(ctx, e)
				if err != nil {
					return err
				}
				return opts.printSaved(cmd.OutOrStdout(), "Created epic", id)
			})
		},
	}
	flags.register(cmd, false)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newEpicUpdateCmd(opts *rootOptions) *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the name or description of an epic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				uc := c.GetTaskUseCase()
				current, err := uc.GetEpic(ctx, id)
				if err != nil {
					return err
				}
				req, err := flags.apply(cmd, dto.RequestFromItem(current))
				if err != nil {
					return err
				}
				e, err := req.ToEpic()
				if err != nil {
					return err
				}
				if err := uc.UpdateEpic(ctx, e); err != nil {
					return err
				}
				return opts.printSaved(cmd.OutOrStdout(), "Updated epic", id)
			})
		},
	}
	flags.register(cmd, false)
	return cmd
}

func newEpicListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List epics by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				epics, err := c.GetTaskUseCase().ListEpics(ctx)
				if err != nil {
					return err
				}
				return opts.printItems(cmd.OutOrStdout(), dto.FromItems(epics))
			})
		},
	}
}

func newEpicShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one epic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				e, err := c.GetTaskUseCase().GetEpic(ctx, id)
				if err != nil {
					return err
				}
				return opts.printItem(cmd.OutOrStdout(), dto.FromItem(e))
			})
		},
	}
}

func newEpicSubtasksCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "subtasks <id>",
		Short: "List the subtasks of an epic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				subtasks, err := c.GetTaskUseCase().ListEpicSubtasks(ctx, id)
				if err != nil {
					return err
				}
				return opts.printItems(cmd.OutOrStdout(), dto.FromItems(subtasks))
			})
		},
	}
}

func newEpicDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an epic and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				if err := c.GetTaskUseCase().DeleteEpic(ctx, id); err != nil {
					return err
				}
				return opts.printSaved(cmd.OutOrStdout(), "Deleted epic", id)
			})
		},
	}
}

func newEpicClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every epic and subtask",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				return c.GetTaskUseCase().ClearEpics(ctx)
			})
		},
	}
}
