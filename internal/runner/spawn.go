package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// SpawnWait materializes the script into a private temporary file, runs it
// as a child process and blocks until it exits. The temporary file is
// removed on every exit path. Works on every platform.
type SpawnWait struct {
	// Stdin, Stdout and Stderr are wired to the child.
	// Nil fields default to the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements ExecutionStrategy.
// A child killed by a signal reports exit code 1.
func (s *SpawnWait) Run(ctx context.Context, script []byte, args []string, treeRoot string) (int, error) {
	dir, err := os.MkdirTemp("", "arbor-")
	if err != nil {
		return 0, fmt.Errorf("create script dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, uuid.NewString())
	if err := os.WriteFile(path, script, 0o700); err != nil {
		return 0, fmt.Errorf("write script: %w", err)
	}
	// WriteFile's mode is subject to umask; make the bit explicit.
	if err := os.Chmod(path, 0o700); err != nil {
		return 0, fmt.Errorf("mark script executable: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = append(os.Environ(), TreeRootEnv+"="+treeRoot)
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal.
			code = 1
		}
		return code, nil
	}
	if err != nil {
		return 0, fmt.Errorf("spawn script: %w", err)
	}
	return 0, nil
}
