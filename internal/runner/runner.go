// Package runner turns stored script blobs into running child processes.
//
// A strategy materializes the script bytes into an executable artifact,
// invokes it with argv [artifact-path, user-args...] and the resolved tree
// root exported in the environment, and either yields the child's exit code
// (SpawnWait) or becomes the child (ReplaceProcess).
//
// A nonzero exit code from the child is a normal result, never an error.
// The executable artifact never outlives the call.
package runner

import "context"

// TreeRootEnv is exported to every executed script. It holds the absolute
// path of the resolved tree root, and is always present, even when empty.
const TreeRootEnv = "ARBOR_TREE_ROOT"

// ExecutionStrategy runs a script's bytes as a child process.
type ExecutionStrategy interface {
	// Run executes script with the given arguments and tree root.
	// Returns the child's exit code. Errors are reserved for failures to
	// launch: temp-resource creation, spawn, or exec failures.
	Run(ctx context.Context, script []byte, args []string, treeRoot string) (int, error)
}

// Runner executes scripts with a configured strategy.
type Runner struct {
	strategy ExecutionStrategy
}

// New creates a Runner. A nil strategy defaults to SpawnWait.
func New(strategy ExecutionStrategy) *Runner {
	if strategy == nil {
		strategy = &SpawnWait{}
	}
	return &Runner{strategy: strategy}
}

// Run executes script via the configured strategy.
func (r *Runner) Run(ctx context.Context, script []byte, args []string, treeRoot string) (int, error) {
	return r.strategy.Run(ctx, script, args, treeRoot)
}
