package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/store"
)

// NewEditCommand creates the edit command: pull the script into a temp
// file, hand it to the configured editor, and store the result if it
// changed.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <name>",
		Short: "Edit a stored script in your editor",
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
				return WrapExitError(ExitCommandError, "failed to load script", err)
			}

			edited, err := editInTempFile(app.Config.ResolveEditor(), args[0], body)
			if err != nil {
				return err
			}
			if bytes.Equal(edited, body) {
				fmt.Fprintln(cmd.ErrOrStderr(), "No changes.")
				return nil
			}

			if err := app.Store.UpdateBinding(ctx, store.KindScript, app.TreeID, args[0], edited); err != nil {
				return WrapExitError(ExitCommandError, "failed to store edited script", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Updated script '%s'\n", args[0])
			return nil
		},
	}
}

// editInTempFile round-trips content through the user's editor.
// The editor string may carry arguments ("code --wait").
func editInTempFile(editor, name string, body []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "arbor-edit-")
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create temp dir", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to write temp script", err)
	}

	parts, err := shlex.Split(editor)
	if err != nil || len(parts) == 0 {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("unusable editor command %q", editor))
	}

	ed := exec.Command(parts[0], append(parts[1:], path)...)
	ed.Stdin = os.Stdin
	ed.Stdout = os.Stdout
	ed.Stderr = os.Stderr
	if err := ed.Run(); err != nil {
		return nil, WrapExitError(ExitCommandError, "editor failed", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read edited script", err)
	}
	return edited, nil
}
