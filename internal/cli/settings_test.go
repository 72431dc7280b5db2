package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/csvload/internal/config"
	"github.com/vvka-141/csvload/pkg/csvload"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseDateColumns(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{"empty", nil, map[string]string{}, false},
		{"single", []string{"joined=%Y-%m-%d"}, map[string]string{"joined": "%Y-%m-%d"}, false},
		{"spaces trimmed", []string{" updated = %d/%m/%Y %H:%M "}, map[string]string{"updated": "%d/%m/%Y %H:%M"}, false},
		{"later wins", []string{"d=%Y", "d=%y"}, map[string]string{"d": "%y"}, false},
		{"missing equals", []string{"joined"}, nil, true},
		{"missing name", []string{"=%Y"}, nil, true},
		{"missing format", []string{"joined="}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateColumns(tt.pairs)
			if tt.wantErr {
				assert.True(t, errors.Is(err, csvload.ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeDateColumns_FlagsOverrideFile(t *testing.T) {
	fileCfg := &config.ImportConfig{DateColumns: map[string]string{"joined": "%Y-%m-%d", "left": "%d.%m.%Y"}}

	got, err := mergeDateColumns(fileCfg, []string{"joined=%d/%m/%Y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"joined": "%d/%m/%Y", "left": "%d.%m.%Y"}, got)
}

func TestResolveDelimiter(t *testing.T) {
	fileCfg := &config.ImportConfig{Delimiter: ";"}

	r, err := resolveDelimiter("", fileCfg)
	require.NoError(t, err)
	assert.Equal(t, ';', r)

	r, err = resolveDelimiter("tab", fileCfg)
	require.NoError(t, err)
	assert.Equal(t, '\t', r)

	r, err = resolveDelimiter("", nil)
	require.NoError(t, err)
	assert.Zero(t, r)

	_, err = resolveDelimiter("::", nil)
	assert.True(t, errors.Is(err, csvload.ErrInvalidConfig))
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadFileConfig(dir, "")
	require.NoError(t, err)
	assert.Nil(t, cfg, "missing csvload.yaml is not an error")

	writeFile(t, filepath.Join(dir, config.ConfigFileName), "batch_size: 250\n")
	cfg, err = loadFileConfig(dir, "")
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.BatchSize)

	_, err = loadFileConfig(dir, filepath.Join(dir, "absent.yaml"))
	assert.True(t, errors.Is(err, csvload.ErrInvalidConfig), "an explicit --config must exist")

	writeFile(t, filepath.Join(dir, "bad.yaml"), "batch_size: [oops\n")
	_, err = loadFileConfig(dir, filepath.Join(dir, "bad.yaml"))
	assert.True(t, errors.Is(err, csvload.ErrInvalidConfig))
}

func TestNewLogger_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.log")

	logger, closeLog, err := newLogger(false, path)
	require.NoError(t, err)
	logger.Info("Imported %d files", 3)
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO - Imported 3 files")
}

func TestNewLogger_BadPath(t *testing.T) {
	_, _, err := newLogger(false, filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.True(t, errors.Is(err, csvload.ErrInvalidConfig))
}
