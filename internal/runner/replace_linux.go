//go:build linux

package runner

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CanReplaceProcess reports whether the ReplaceProcess strategy is available.
const CanReplaceProcess = true

// ReplaceProcess writes the script into an anonymous memory-backed file and
// execs it, replacing the current process image. On success it never
// returns; the memfd is unlinked by nature, so nothing is left behind.
type ReplaceProcess struct{}

// Run implements ExecutionStrategy. The returned exit code is meaningless:
// either the exec succeeds and the call diverges, or an error is returned.
func (ReplaceProcess) Run(ctx context.Context, script []byte, args []string, treeRoot string) (int, error) {
	// No MFD_CLOEXEC: the descriptor must survive the exec.
	fd, err := unix.MemfdCreate("arbor-script", 0)
	if err != nil {
		return 0, fmt.Errorf("memfd create: %w", err)
	}
	f := os.NewFile(uintptr(fd), "arbor-script")
	if _, err := f.Write(script); err != nil {
		f.Close()
		return 0, fmt.Errorf("write script to memfd: %w", err)
	}

	path := fmt.Sprintf("/proc/self/fd/%d", fd)
	argv := append([]string{path}, args...)
	env := append(os.Environ(), TreeRootEnv+"="+treeRoot)

	if err := unix.Exec(path, argv, env); err != nil {
		f.Close()
		return 0, fmt.Errorf("exec script: %w", err)
	}
	panic("unreachable: exec returned without error")
}
