package testutil

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/devsetup/internal/shell"
)

func TestFakeRunnerRecordsCallsInOrder(t *testing.T) {
	runner := NewFakeRunnerBuilder(t).Build()
	ctx := context.Background()

	require.NoError(t, runner.Run(ctx, shell.Command{Name: "poetry", Args: []string{"init", "-n"}, Dir: "/p"}))
	require.NoError(t, runner.Run(ctx, shell.Command{
		Name:  "python3",
		Args:  []string{"-"},
		Stdin: strings.NewReader("script"),
	}))

	calls := runner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "poetry init -n", calls[0].Line())
	assert.Equal(t, "/p", calls[0].Dir)
	assert.Equal(t, "script", calls[1].Stdin)
	assert.Equal(t, []string{"poetry init -n", "python3 -"}, runner.CallLines())
}

func TestFakeRunnerHandlers(t *testing.T) {
	runner := NewFakeRunnerBuilder(t).
		WithOutput("poetry env info", "/venv").
		WithFailure("poetry add", 1).
		WithOutput("poetry add requests", "ok").
		Build()
	ctx := context.Background()

	out, err := runner.Output(ctx, shell.Command{Name: "poetry", Args: []string{"env", "info", "--path"}})
	require.NoError(t, err)
	assert.Equal(t, "/venv", out)

	err = runner.Run(ctx, shell.Command{Name: "poetry", Args: []string{"add", "bogus"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poetry add bogus")

	var stdout bytes.Buffer
	require.NoError(t, runner.Run(ctx, shell.Command{Name: "poetry", Args: []string{"add", "requests"}, Stdout: &stdout}),
		"later handler wins")
	assert.Equal(t, "ok", stdout.String())

	assert.Len(t, runner.CallsMatching("poetry add"), 2)
	assert.Empty(t, runner.CallsMatching("poetry ad"), "prefix must end on a word")
}

func TestFakeRunnerLookPath(t *testing.T) {
	runner := NewFakeRunnerBuilder(t).WithCommands("git").Build()

	path, err := runner.LookPath("git")
	require.NoError(t, err)
	assert.Equal(t, "git", path[len(path)-3:])

	_, err = runner.LookPath("python3")
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestFakeRunnerReset(t *testing.T) {
	runner := NewFakeRunnerBuilder(t).Build()
	require.NoError(t, runner.Run(context.Background(), shell.Command{Name: "true"}))
	runner.Reset()
	assert.Empty(t, runner.Calls())
}
