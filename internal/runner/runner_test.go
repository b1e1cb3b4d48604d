package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireUnixShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests exercise /bin/sh scripts")
	}
}

func TestSpawnWait_ExitCodePassthrough(t *testing.T) {
	requireUnixShell(t)

	code, err := (&SpawnWait{}).Run(context.Background(), []byte("#!/bin/sh\nexit 3\n"), nil, "")
	require.NoError(t, err, "a nonzero exit code is a result, not an error")
	assert.Equal(t, 3, code)
}

func TestSpawnWait_ZeroExit(t *testing.T) {
	requireUnixShell(t)

	code, err := (&SpawnWait{}).Run(context.Background(), []byte("#!/bin/sh\nexit 0\n"), nil, "")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestSpawnWait_SignalDeathMapsToOne(t *testing.T) {
	requireUnixShell(t)

	// A signal-killed child has no exit code; it is reported as 1.
	code, err := (&SpawnWait{}).Run(context.Background(), []byte("#!/bin/sh\nkill -KILL $$\n"), nil, "")
	require.NoError(t, err, "signal death is a result, not an error")
	assert.Equal(t, 1, code)
}

func TestSpawnWait_TreeRootInEnvironment(t *testing.T) {
	requireUnixShell(t)

	out := filepath.Join(t.TempDir(), "env.out")
	script := []byte("#!/bin/sh\nprintf '%s' \"$" + TreeRootEnv + "\" > \"$1\"\n")

	code, err := (&SpawnWait{}).Run(context.Background(), script, []string{out}, "/my/tree/root")
	require.NoError(t, err)
	require.Equal(t, 0, code)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "/my/tree/root", string(got))
}

func TestSpawnWait_TreeRootPresentWhenEmpty(t *testing.T) {
	requireUnixShell(t)

	out := filepath.Join(t.TempDir(), "env.out")
	// Prints "set" only if the variable exists in the environment.
	script := []byte("#!/bin/sh\nif [ \"${" + TreeRootEnv + "+set}\" = set ]; then printf set > \"$1\"; fi\n")

	code, err := (&SpawnWait{}).Run(context.Background(), script, []string{out}, "")
	require.NoError(t, err)
	require.Equal(t, 0, code)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "set", string(got))
}

func TestSpawnWait_ArgumentOrder(t *testing.T) {
	requireUnixShell(t)

	out := filepath.Join(t.TempDir(), "args.out")
	script := []byte("#!/bin/sh\nprintf '%s\\n%s\\n%s' \"$0\" \"$2\" \"$3\" > \"$1\"\n")

	code, err := (&SpawnWait{}).Run(context.Background(), script, []string{out, "first", "second"}, "")
	require.NoError(t, err)
	require.Equal(t, 0, code)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(string(raw), "\n")
	require.Len(t, lines, 3)

	// argv[0] is the temp artifact path, user args follow in order.
	assert.NotEmpty(t, lines[0])
	assert.Equal(t, "first", lines[1])
	assert.Equal(t, "second", lines[2])
}

func TestSpawnWait_ArtifactRemovedAfterRun(t *testing.T) {
	requireUnixShell(t)

	out := filepath.Join(t.TempDir(), "self.out")
	script := []byte("#!/bin/sh\nprintf '%s' \"$0\" > \"$1\"\n")

	code, err := (&SpawnWait{}).Run(context.Background(), script, []string{out}, "")
	require.NoError(t, err)
	require.Equal(t, 0, code)

	selfPath, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NotEmpty(t, selfPath)

	_, err = os.Stat(string(selfPath))
	assert.True(t, os.IsNotExist(err), "temp artifact %s should be gone", selfPath)
}

func TestSpawnWait_CapturedOutput(t *testing.T) {
	requireUnixShell(t)

	var stdout bytes.Buffer
	strategy := &SpawnWait{Stdout: &stdout}

	code, err := strategy.Run(context.Background(), []byte("#!/bin/sh\necho hi\n"), nil, "")
	require.NoError(t, err)
	require.Equal(t, 0, code)
	assert.Equal(t, "hi\n", stdout.String())
}

func TestRunner_DefaultsToSpawnWait(t *testing.T) {
	requireUnixShell(t)

	r := New(nil)
	code, err := r.Run(context.Background(), []byte("#!/bin/sh\nexit 7\n"), nil, "")
	require.NoError(t, err)
	assert.Equal(t, 7, code)
}

func TestSpawnWait_UnlaunchableScript(t *testing.T) {
	requireUnixShell(t)

	// Interpreter that does not exist: launch failure, surfaced as an error.
	_, err := (&SpawnWait{}).Run(context.Background(), []byte("#!/no/such/interpreter\n"), nil, "")
	assert.Error(t, err)
}
