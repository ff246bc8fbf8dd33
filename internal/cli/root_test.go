package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeDoc writes a YAML document into a temporary directory.
func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "fastsets", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"apply", "validate"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "validate", "testdata/labels.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "x", os.ErrNotExist)))
	assert.ErrorIs(t, WrapExitError(ExitFailure, "x", os.ErrNotExist), os.ErrNotExist)
	assert.Equal(t, "x: file does not exist", WrapExitError(ExitFailure, "x", os.ErrNotExist).Error())
}
