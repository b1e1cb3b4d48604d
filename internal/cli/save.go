package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/store"
)

// NewSaveCommand creates the save command. The file's path argument, as
// given, becomes its binding name so restore can put it back in place.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save <path>",
		Short: "Save a file from the working tree",
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

			body, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read file", err)
			}
			if err := app.Store.AddBinding(ctx, store.KindFile, app.TreeID, args[0], body); err != nil {
				if store.IsDuplicateName(err) {
					return NewExitError(ExitCommandError,
						fmt.Sprintf("a file named %q is already saved for this tree", args[0]))
				}
				return WrapExitError(ExitCommandError, "failed to save file", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved '%s'\n", args[0])
			return nil
		},
	}
}

// NewRestoreCommand creates the restore command. Without a path it lists
// the saved files instead.
func NewRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [path]",
		Short: "Restore a saved file to the working tree",
		Args:  cobra.MaximumNArgs(1),
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

			if len(args) == 0 {
				files, err := app.Store.ListBindings(ctx, store.KindFile, app.TreeID)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to list files", err)
				}
				out := cmd.OutOrStdout()
				if len(files) == 0 {
					fmt.Fprintln(out, "No files have been saved yet. To save one, use `arbor save`.")
				} else {
					writeBindingList(out, "The following files are available (arbor restore):", files)
				}
				return nil
			}

			body, err := app.Store.GetBinding(ctx, store.KindFile, app.TreeID, args[0])
			if err != nil {
				if store.IsNotFound(err) {
					return NewExitError(ExitCommandError,
						fmt.Sprintf("no file named %q is saved for this tree", args[0]))
				}
				return WrapExitError(ExitCommandError, "failed to load file", err)
			}
			if err := os.WriteFile(args[0], body, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "failed to restore file", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Restored '%s'\n", args[0])
			return nil
		},
	}
}
