package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/arbor/internal/config"
	"github.com/roach88/arbor/internal/store"
)

// App bundles the open store and resolved configuration for a command
// invocation. TreeID and TreeRoot are set only after requireTree.
type App struct {
	Store    *store.Store
	Config   *config.Config
	TreeID   int64
	TreeRoot string
}

// openApp loads configuration and opens the database.
// Callers must Close the app when done.
func openApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	dbPath, err := cfg.DBPath()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to prepare data directory", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return &App{Store: st, Config: cfg}, nil
}

// Close releases the app's store.
func (a *App) Close() error {
	return a.Store.Close()
}

// workingDir returns the absolute current working directory.
func workingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to read working directory", err)
	}
	return filepath.Clean(cwd), nil
}

// requireTree resolves the working directory to the nearest established
// root and stores it on the app. When no root matches, it prints the
// established trees as a hint and fails.
func (a *App) requireTree(ctx context.Context) error {
	cwd, err := workingDir()
	if err != nil {
		return err
	}
	id, root, ok, err := a.Store.ResolveTree(ctx, cwd)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resolve tree root", err)
	}
	if !ok {
		trees, err := a.Store.ListTrees(ctx)
		if err == nil && len(trees) > 0 {
			fmt.Fprintln(os.Stderr, "The following trees are established:")
			writeTreeList(os.Stderr, trees)
			fmt.Fprintln(os.Stderr)
		}
		return NewExitError(ExitCommandError,
			"no arbor tree root was found. To establish one, run `arbor establish`")
	}
	a.TreeID = id
	a.TreeRoot = root
	return nil
}

// readScriptArg loads script content for add/update: the literal argument
// when inline is set, otherwise the file it points at. Relative paths are
// resolved against the working directory; absolute paths are used as given.
func readScriptArg(arg string, inline bool) ([]byte, error) {
	if inline {
		return []byte(arg), nil
	}
	path, err := filepath.Abs(arg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to resolve script path", err)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read script file", err)
	}
	return body, nil
}
