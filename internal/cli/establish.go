package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/store"
)

// NewEstablishCommand creates the establish command.
func NewEstablishCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "establish",
		Short: "Establish the current directory as a tree root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			cwd, err := workingDir()
			if err != nil {
				return err
			}
			if _, err := app.Store.RegisterTree(cmd.Context(), cwd); err != nil {
				if store.IsAlreadyRegistered(err) {
					return NewExitError(ExitCommandError, "there is already an arbor tree root here")
				}
				return WrapExitError(ExitCommandError, "failed to establish tree root", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Established %s\n", cwd)
			return nil
		},
	}
}

// NewUnestablishCommand creates the unestablish command.
// To guard against surprises, it refuses to run from anywhere but the root
// directory itself.
func NewUnestablishCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unestablish",
		Short: "Unestablish the current directory as a tree root",
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

			cwd, err := workingDir()
			if err != nil {
				return err
			}
			if cwd != app.TreeRoot {
				errw := cmd.ErrOrStderr()
				fmt.Fprintln(errw, "The current directory is not the root.")
				fmt.Fprintf(errw, "Go to %s\n", app.TreeRoot)
				fmt.Fprintln(errw, "Then run this command again if you really want to unestablish")
				return newExitStatus(ExitFailure)
			}

			if err := app.Store.UnregisterTree(ctx, app.TreeID); err != nil {
				return WrapExitError(ExitCommandError, "failed to unestablish tree root", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Unestablished %s\n", app.TreeRoot)
			return nil
		},
	}
}
