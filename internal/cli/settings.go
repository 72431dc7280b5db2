package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/csvload/internal/config"
	"github.com/vvka-141/csvload/internal/logging"
	"github.com/vvka-141/csvload/pkg/csvload"
)

// loadFileConfig loads .env and then csvload.yaml, from configPath when
// given or from sourceDir otherwise. A missing csvload.yaml in sourceDir is
// not an error and yields nil.
func loadFileConfig(sourceDir, configPath string) (*config.ImportConfig, error) {
	_ = godotenv.Load()

	var (
		cfg *config.ImportConfig
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(sourceDir)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %v: %w", config.ConfigFileName, err, csvload.ErrInvalidConfig)
	}
	return cfg, nil
}

// parseDateColumns parses name=format pairs. The format may itself contain '='.
func parseDateColumns(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, format, ok := strings.Cut(pair, "=")
		name, format = strings.TrimSpace(name), strings.TrimSpace(format)
		if !ok || name == "" || format == "" {
			return nil, fmt.Errorf("invalid --date-column %q, expected name=format: %w", pair, csvload.ErrInvalidConfig)
		}
		out[name] = format
	}
	return out, nil
}

// mergeDateColumns layers --date-column flags over csvload.yaml date_columns.
func mergeDateColumns(fileCfg *config.ImportConfig, pairs []string) (map[string]string, error) {
	merged := make(map[string]string)
	if fileCfg != nil {
		for k, v := range fileCfg.DateColumns {
			merged[k] = v
		}
	}
	flagDates, err := parseDateColumns(pairs)
	if err != nil {
		return nil, err
	}
	for k, v := range flagDates {
		merged[k] = v
	}
	return merged, nil
}

// resolveDelimiter prefers the --delimiter flag over csvload.yaml.
func resolveDelimiter(flagValue string, fileCfg *config.ImportConfig) (rune, error) {
	s := flagValue
	if s == "" && fileCfg != nil {
		s = fileCfg.Delimiter
	}
	r, err := config.ParseDelimiter(s)
	if err != nil {
		return 0, fmt.Errorf("%v: %w", err, csvload.ErrInvalidConfig)
	}
	return r, nil
}

// resolveInt returns the flag value when it was set explicitly, otherwise the
// csvload.yaml value when non-zero, otherwise the flag default.
func resolveInt(cmd *cobra.Command, name string, flagValue, fileValue int) int {
	if cmd.Flags().Changed(name) || fileValue == 0 {
		return flagValue
	}
	return fileValue
}

// resolveEffectiveTimeout returns the effective timeout, preferring csvload.yaml if the flag wasn't set.
func resolveEffectiveTimeout(cmd *cobra.Command, fileCfg *config.ImportConfig, flagTimeout time.Duration) (time.Duration, error) {
	if fileCfg != nil && fileCfg.Timeout != "" && !cmd.Flags().Changed("timeout") {
		parsed, err := fileCfg.TimeoutDuration()
		if err != nil {
			return 0, fmt.Errorf("%v: %w", err, csvload.ErrInvalidConfig)
		}
		return parsed, nil
	}
	return flagTimeout, nil
}

// newLogger builds the console logger and, when logFile is set, fans out to
// a file logger too. The returned func closes the file.
func newLogger(verbose bool, logFile string) (csvload.Logger, func(), error) {
	console := logging.NewConsoleLogger(verbose)
	if logFile == "" {
		return console, func() {}, nil
	}
	fileLogger, err := logging.NewFileLogger(logFile, verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("%v: %w", err, csvload.ErrInvalidConfig)
	}
	return logging.NewMultiLogger(console, fileLogger), func() { _ = fileLogger.Close() }, nil
}
