package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/store"
)

// NewCatCommand creates the cat command. Scripts take precedence; when no
// script matches, the file namespace is tried before giving up.
func NewCatCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <name>",
		Short: "Write a stored script or file to standard out",
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

			body, err := app.Store.GetBinding(ctx, store.KindScript, app.TreeID, args[0])
			if store.IsNotFound(err) {
				body, err = app.Store.GetBinding(ctx, store.KindFile, app.TreeID, args[0])
			}
			if err != nil {
				if store.IsNotFound(err) {
					return NewExitError(ExitCommandError,
						fmt.Sprintf("nothing named %q is kept for this tree", args[0]))
				}
				return WrapExitError(ExitCommandError, "cat failed", err)
			}

			if _, err := cmd.OutOrStdout().Write(body); err != nil {
				return WrapExitError(ExitCommandError, "failed to write content", err)
			}
			return nil
		},
	}
}

// NewCheckoutCommand creates the checkout command: a copy of a stored
// script materialized as an executable file in the working directory.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <name>",
		Short: "Check out a copy of a script as a file",
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

			body, err := app.Store.GetBinding(ctx, store.KindScript, app.TreeID, args[0])
			if err != nil {
				if store.IsNoSuchScript(err) {
					return NewExitError(ExitCommandError,
						fmt.Sprintf("no script named %q for this tree", args[0]))
				}
				return WrapExitError(ExitCommandError, "checkout failed", err)
			}

			// Script names may contain separators; keep only the base name.
			target := filepath.Base(args[0])
			if err := os.WriteFile(target, body, 0o755); err != nil {
				return WrapExitError(ExitCommandError, "failed to write checkout", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Checked out '%s'\n", target)
			return nil
		},
	}
}
