package main

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/robo"
	"github.com/anggasct/robo/internal/demos"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	for _, d := range demos.All() {
		assert.Contains(t, out, d.Name())
	}
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph", "stoplight")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `red -- "next" --> green`)

	out, err = execute(t, "graph", "checkout", "--format", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, `digraph "checkout"`)

	out, err = execute(t, "graph", "users", "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: users")

	_, err = execute(t, "graph", "stoplight", "-f", "png")
	assert.Error(t, err)

	_, err = execute(t, "graph", "nope")
	assert.Error(t, err)
}

func TestRunCommand_Script(t *testing.T) {
	out, err := execute(t, "run", "checkout")
	require.NoError(t, err)

	assert.Contains(t, out, "checkout: cart")
	assert.Contains(t, out, "> authorize")
	assert.Contains(t, out, "payment: pending -> authorizing (authorize)")
	assert.Contains(t, out, "checkout: settle -> confirmed (immediate)")
	assert.Contains(t, out, "final: true")
}

func TestRunCommand_Events(t *testing.T) {
	out, err := execute(t, "run", "counter", "dec", "inc")
	require.NoError(t, err)

	assert.Contains(t, out, "> dec\n  (no transition)")
	assert.Contains(t, out, "counter: idle -> idle (inc)")
	assert.Contains(t, out, "context: {Count:1 Max:10}")
}

func TestRunCommand_Strict(t *testing.T) {
	_, err := execute(t, "run", "stoplight", "jump", "--strict")
	assert.True(t, robo.IsUnmatchedEventError(err))

	_, err = execute(t, "run", "stoplight", "jump")
	assert.NoError(t, err)
}

func TestRunCommand_StrictFromEnvironment(t *testing.T) {
	t.Setenv("ROBO_STRICT", "true")

	_, err := execute(t, "run", "stoplight", "jump")
	assert.Error(t, err)
}

func TestRunDemo_Timeout(t *testing.T) {
	d, err := demos.Lookup("users")
	require.NoError(t, err)

	var out bytes.Buffer
	err = runDemo(testContext(t), &out, d, []string{"fetch"}, runOptions{timeout: time.Nanosecond})
	assert.ErrorContains(t, err, "still running")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

// testContext returns a context canceled when the test finishes
// (equivalent of testing.T.Context from Go 1.24).
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
