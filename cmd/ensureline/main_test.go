package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ensureline/internal/cli"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ensureline version dev\n", out)
}

func TestApplyCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile")
	require.NoError(t, os.WriteFile(path, []byte("umask 077\n"), 0o644))

	args := []string{"apply",
		"--catalog", filepath.Join(dir, "catalog"),
		"--dest", path,
		"--regexp", "^umask",
		"--line", "umask 022",
		"--encoding-from", "UTF-8",
		"--encoding-to", "UTF-8",
	}
	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, "changed: "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "umask 022\n", string(data))

	out, err = execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, "ok: "+path+"\n", out)
}

func TestBatchCommand_Fails(t *testing.T) {
	dir := t.TempDir()
	tasks := filepath.Join(dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(tasks, []byte("- path: relative\n  line: x\n"), 0o644))

	out, err := execute(t, "batch", "-f", tasks, "--catalog", filepath.Join(dir, "catalog"))
	require.Error(t, err)
	assert.Equal(t, cli.ExitFailure, cli.ExitCode(err))
	assert.Contains(t, out, "0 changed, 1 failed")
}

func TestUnknownFlag_IsValidationFailure(t *testing.T) {
	_, err := execute(t, "version", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))
}
