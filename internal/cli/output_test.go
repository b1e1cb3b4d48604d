package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/arbor/internal/store"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	assert.Equal(t, 5, GetExitCode(newExitStatus(5)))

	wrapped := fmt.Errorf("context: %w", NewExitError(ExitCommandError, "inner"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestIsSilent(t *testing.T) {
	assert.True(t, IsSilent(newExitStatus(3)))
	assert.False(t, IsSilent(NewExitError(ExitFailure, "spoken")))
	assert.False(t, IsSilent(errors.New("plain")))
}

func TestExitError_Messages(t *testing.T) {
	assert.Equal(t, "boom", NewExitError(1, "boom").Error())

	wrapped := WrapExitError(2, "outer", errors.New("inner"))
	assert.Equal(t, "outer: inner", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "inner")
}

func TestWriteBindingList_Golden(t *testing.T) {
	var buf bytes.Buffer
	writeBindingList(&buf, "The following scripts are available (arbor run):", []store.BindingInfo{
		{Name: "build", Description: "compile the project"},
		{Name: "fmt"},
		{Name: "test", Description: "run the test suite"},
	})

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "script_list", buf.Bytes())
}

func TestWriteTreeList_EmptyHint(t *testing.T) {
	var buf bytes.Buffer
	writeTreeList(&buf, nil)
	assert.Contains(t, buf.String(), "arbor establish")
}

func TestWriteTreeList_Roots(t *testing.T) {
	var buf bytes.Buffer
	writeTreeList(&buf, []store.TreeInfo{
		{ID: 1, Root: "/home/user/project"},
		{ID: 2, Root: "/srv/data"},
	})
	assert.Equal(t, "/home/user/project\n/srv/data\n", buf.String())
}
