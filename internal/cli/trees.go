package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/store"
)

// NewTreesCommand creates the trees command.
func NewTreesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trees",
		Short: "List all established tree roots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			trees, err := app.Store.ListTrees(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list trees", err)
			}
			writeTreeList(cmd.OutOrStdout(), trees)
			return nil
		},
	}
}

// NewMoveCommand creates the move command. It re-keys a stored root path
// after the directory itself has been moved; it does not touch the
// filesystem.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <old-path> <new-path>",
		Short: "Update a root's stored path after moving its directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			oldPath, err := filepath.Abs(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to resolve old path", err)
			}
			newPath, err := filepath.Abs(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to resolve new path", err)
			}

			if err := app.Store.RenameTree(cmd.Context(), oldPath, newPath); err != nil {
				switch {
				case store.IsAlreadyRegistered(err):
					return NewExitError(ExitCommandError, "the new path is already an established tree root")
				case store.IsNotFound(err):
					return NewExitError(ExitCommandError, "the old path is not an established tree root")
				}
				return WrapExitError(ExitCommandError, "failed to move tree root", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Moved %s -> %s\n", oldPath, newPath)
			return nil
		},
	}
}
