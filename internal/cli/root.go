package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the arbor CLI.
//
// Run without a subcommand, arbor lists the scripts and files kept for the
// current tree, or the established trees when the working directory is not
// inside one.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "arbor",
		Short: "Keep scripts and files out of tree",
		Long: `Arbor associates named scripts and files with a directory tree,
keeps their contents in a shared deduplicated database, and runs stored
scripts with the tree root exported in the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel := slog.LevelWarn
			if opts.Verbose {
				logLevel = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})
			slog.SetDefault(slog.New(handler))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverview(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewEstablishCommand(opts))
	cmd.AddCommand(NewUnestablishCommand(opts))
	cmd.AddCommand(NewTreesCommand(opts))
	cmd.AddCommand(NewMoveCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewRenameCommand(opts))
	cmd.AddCommand(NewDescribeCommand(opts))
	cmd.AddCommand(NewLsCommand(opts))
	cmd.AddCommand(NewCatCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewRestoreCommand(opts))
	cmd.AddCommand(NewCloneCommand(opts))
	cmd.AddCommand(NewPruneCommand(opts))

	return cmd
}

// runOverview is the bare `arbor` invocation: scripts and files of the
// current tree, or the established trees when outside of any.
func runOverview(cmd *cobra.Command) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	cwd, err := workingDir()
	if err != nil {
		return err
	}
	id, _, ok, err := app.Store.ResolveTree(ctx, cwd)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resolve tree root", err)
	}

	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(out, "The following trees are established:")
		trees, err := app.Store.ListTrees(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list trees", err)
		}
		writeTreeList(out, trees)
		return nil
	}

	scripts, err := app.Store.ListBindings(ctx, store.KindScript, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list scripts", err)
	}
	files, err := app.Store.ListBindings(ctx, store.KindFile, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list files", err)
	}

	if len(scripts) == 0 {
		fmt.Fprintln(out, "No scripts have been added yet. To add one, use `arbor add`.")
	} else {
		writeBindingList(out, "The following scripts are available (arbor run):", scripts)
	}
	fmt.Fprintln(out)
	if len(files) == 0 {
		fmt.Fprintln(out, "No files have been saved yet. To save one, use `arbor save`.")
	} else {
		writeBindingList(out, "The following files are available (arbor restore):", files)
	}
	return nil
}
