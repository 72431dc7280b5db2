package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/csvload/pkg/csvload"
)

func TestRequireSourceDir(t *testing.T) {
	cmd := &cobra.Command{Use: "import <source_dir>"}

	err := RequireSourceDir(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required argument: <source_dir>")
	assert.Contains(t, err.Error(), "Example:")
	assert.Equal(t, csvload.ExitUsageError, csvload.ExitCodeForError(err))

	assert.NoError(t, RequireSourceDir(cmd, []string{"./exports"}))

	err = RequireSourceDir(cmd, []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
	assert.Equal(t, csvload.ExitUsageError, csvload.ExitCodeForError(err))
}

func TestRequireCSVFile(t *testing.T) {
	cmd := &cobra.Command{Use: "inspect <csv_file>"}

	err := RequireCSVFile(cmd, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required argument: <csv_file>")
	assert.Contains(t, err.Error(), "%d/%m/%Y")

	assert.NoError(t, RequireCSVFile(cmd, []string{"sales.csv"}))
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"import", "inspect", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
