package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/runner"
	"github.com/roach88/arbor/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	Exec bool

	// Strategy overrides the execution strategy (for testing).
	Strategy runner.ExecutionStrategy
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <name> [args...]",
		Short: "Run a stored script for the current tree",
		Long: `Run a stored script for the current tree.

The script runs with any extra arguments appended, and with the resolved
tree root exported as ` + runner.TreeRootEnv + `. The script's exit code
becomes arbor's own exit code.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, opts, args[0], args[1:])
		},
	}

	cmd.Flags().BoolVar(&opts.Exec, "exec", false, "replace the arbor process with the script (where supported)")
	return cmd
}

func runScript(cmd *cobra.Command, opts *RunOptions, name string, scriptArgs []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	if err := app.requireTree(ctx); err != nil {
		return err
	}

	body, err := app.Store.GetBinding(ctx, store.KindScript, app.TreeID, name)
	if err != nil {
		if store.IsNoSuchScript(err) {
			errw := cmd.ErrOrStderr()
			fmt.Fprintf(errw, "No script named '%s' for the current tree.\n\n", name)
			scripts, listErr := app.Store.ListBindings(ctx, store.KindScript, app.TreeID)
			if listErr == nil && len(scripts) > 0 {
				writeBindingList(errw, "The following scripts are available (arbor run):", scripts)
			}
			return newExitStatus(ExitFailure)
		}
		return WrapExitError(ExitCommandError, "failed to load script", err)
	}

	strategy := opts.Strategy
	if strategy == nil {
		strategy = pickStrategy(opts.Exec || app.Config.Strategy == "exec")
	}

	slog.Debug("running script", "name", name, "tree_root", app.TreeRoot, "args", scriptArgs)
	code, err := runner.New(strategy).Run(ctx, body, scriptArgs, app.TreeRoot)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run script", err)
	}
	if code != 0 {
		// The script's own exit status, passed through verbatim.
		return newExitStatus(code)
	}
	return nil
}

// pickStrategy selects process replacement when requested and available.
// ReplaceProcess never returns on success, so the database is closed by the
// OS rather than by the deferred Close; SQLite's journal handles that.
func pickStrategy(replace bool) runner.ExecutionStrategy {
	if replace && runner.CanReplaceProcess {
		return runner.ReplaceProcess{}
	}
	return &runner.SpawnWait{}
}
