package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/store"
)

// LsOptions holds flags for the ls command.
type LsOptions struct {
	Files bool
}

// NewLsCommand creates the ls command.
func NewLsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LsOptions{}

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List the scripts kept for the current tree",
		Args:  cobra.NoArgs,
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

			kind := store.KindScript
			if opts.Files {
				kind = store.KindFile
			}
			bindings, err := app.Store.ListBindings(ctx, kind, app.TreeID)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("failed to list %ss", kind), err)
			}

			out := cmd.OutOrStdout()
			switch {
			case len(bindings) == 0 && opts.Files:
				fmt.Fprintln(out, "No files have been saved yet. To save one, use `arbor save`.")
			case len(bindings) == 0:
				fmt.Fprintln(out, "No scripts have been added yet. To add one, use `arbor add`.")
			case opts.Files:
				writeBindingList(out, "The following files are available (arbor restore):", bindings)
			default:
				writeBindingList(out, "The following scripts are available (arbor run):", bindings)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Files, "files", false, "list saved files instead of scripts")
	return cmd
}
