package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/store"
)

// AddOptions holds flags shared by add and update.
type AddOptions struct {
	Inline bool
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{}

	cmd := &cobra.Command{
		Use:   "add <name> <script>",
		Short: "Add a script for the current tree",
		Long: `Add a script for the current tree.

The script argument is a path to a script file, or with --inline the
script text itself:

  arbor add build ./scripts/build.sh
  arbor add greet -i '#!/bin/sh
  echo hello'`,
		Args: cobra.ExactArgs(2),
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

			body, err := readScriptArg(args[1], opts.Inline)
			if err != nil {
				return err
			}
			if err := app.Store.AddBinding(ctx, store.KindScript, app.TreeID, args[0], body); err != nil {
				if store.IsDuplicateName(err) {
					return NewExitError(ExitCommandError,
						fmt.Sprintf("a script named %q already exists for this tree (try `arbor update`)", args[0]))
				}
				return WrapExitError(ExitCommandError, "failed to add script", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Added script '%s'\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Inline, "inline", "i", false, "treat the script argument as the script text")
	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{}

	cmd := &cobra.Command{
		Use:   "update <name> <script>",
		Short: "Update a script with new contents",
		Long: `Update a script with new contents.

The stored blob is overwritten in place: if the same content was shared
with another binding (via deduplication), that binding sees the new
content too.`,
		Args: cobra.ExactArgs(2),
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

			body, err := readScriptArg(args[1], opts.Inline)
			if err != nil {
				return err
			}
			if err := app.Store.UpdateBinding(ctx, store.KindScript, app.TreeID, args[0], body); err != nil {
				if store.IsNoSuchScript(err) {
					return NewExitError(ExitCommandError,
						fmt.Sprintf("no script named %q for this tree (try `arbor add`)", args[0]))
				}
				return WrapExitError(ExitCommandError, "failed to update script", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Updated script '%s'\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Inline, "inline", "i", false, "treat the script argument as the script text")
	return cmd
}
