//go:build !linux

package runner

import (
	"context"
	"errors"
)

// CanReplaceProcess reports whether the ReplaceProcess strategy is available.
const CanReplaceProcess = false

// ReplaceProcess is unavailable off linux; callers should fall back to
// SpawnWait.
type ReplaceProcess struct{}

// Run implements ExecutionStrategy.
func (ReplaceProcess) Run(ctx context.Context, script []byte, args []string, treeRoot string) (int, error) {
	return 0, errors.New("process replacement is not supported on this platform")
}
