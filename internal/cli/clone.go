package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/store"
)

// CloneOptions holds flags for the clone command.
type CloneOptions struct {
	Files bool
}

// NewCloneCommand creates the clone command. Blob references are shared,
// not copied, and destination names that already exist are skipped.
func NewCloneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CloneOptions{}

	cmd := &cobra.Command{
		Use:   "clone <tree-path>",
		Short: "Clone another tree's scripts into the current tree",
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

			srcPath, err := filepath.Abs(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to resolve tree path", err)
			}
			srcID, ok, err := app.Store.LookupTree(ctx, srcPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to look up tree", err)
			}
			if !ok {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("%s is not an established tree root", srcPath))
			}
			if srcID == app.TreeID {
				return NewExitError(ExitCommandError, "cannot clone a tree into itself")
			}

			copied, err := app.Store.CloneBindings(ctx, store.KindScript, srcID, app.TreeID)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to clone scripts", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Cloned %d script(s) from %s\n", copied, srcPath)

			if opts.Files {
				copied, err := app.Store.CloneBindings(ctx, store.KindFile, srcID, app.TreeID)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to clone files", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Cloned %d file(s) from %s\n", copied, srcPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Files, "files", false, "also clone saved files")
	return cmd
}
