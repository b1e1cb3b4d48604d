package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/store"
)

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a script from the current tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if err := app.requireTree(ctx); err != nil {
				return err
			}

			removed, err := app.Store.RemoveBinding(ctx, store.KindScript, app.TreeID, args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to remove script", err)
			}
			if removed {
				fmt.Fprintf(cmd.ErrOrStderr(), "Removed script '%s'\n", args[0])
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "Didn't remove anything. '%s' probably doesn't exist.\n", args[0])
			}
			return nil
		},
	}
}

// NewRenameCommand creates the rename command. The rename is scoped to the
// current tree; same-named scripts in other trees are untouched.
func NewRenameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <current> <new>",
		Short: "Rename a script of the current tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if err := app.requireTree(ctx); err != nil {
				return err
			}

			err = app.Store.RenameBinding(ctx, store.KindScript, app.TreeID, args[0], args[1])
			if err != nil {
				switch {
				case store.IsNoSuchScript(err):
					return NewExitError(ExitCommandError,
						fmt.Sprintf("no script named %q for this tree", args[0]))
				case store.IsDuplicateName(err):
					return NewExitError(ExitCommandError,
						fmt.Sprintf("a script named %q already exists for this tree", args[1]))
				}
				return WrapExitError(ExitCommandError, "failed to rename script", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Renamed '%s' -> '%s'\n", args[0], args[1])
			return nil
		},
	}
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name> <description>",
		Short: "Set a script's description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if err := app.requireTree(ctx); err != nil {
				return err
			}

			if err := app.Store.SetDescription(ctx, store.KindScript, app.TreeID, args[0], args[1]); err != nil {
				if store.IsNotFound(err) {
					return NewExitError(ExitCommandError,
						fmt.Sprintf("no script named %q for this tree", args[0]))
				}
				return WrapExitError(ExitCommandError, "failed to set description", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s => %s\n", args[0], args[1])
			return nil
		},
	}
}
