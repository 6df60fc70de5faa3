package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyCmd_AllLinksResolve(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_INDEX.md"), []byte("- [A](a--1234567890.md)\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a--1234567890.md"), []byte("# A\n"), 0644))

	output, err := executeCommand(t, "verify", dir)

	require.NoError(t, err)
	assert.Contains(t, output, "All links resolve.")
}

func TestVerifyCmd_BrokenLinks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_INDEX.md"), []byte("- [A](a--1234567890.md)\n"), 0644))

	output, err := executeCommand(t, "verify", dir)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, output, "_INDEX.md:1: a--1234567890.md")
}

func TestVerifyCmd_RequiresDir(t *testing.T) {
	_, err := executeCommand(t, "verify")

	assert.Error(t, err)
}
