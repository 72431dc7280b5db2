package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	ConnectTimeout string `yaml:"connect_timeout,omitempty"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// ImportConfig is the on-disk shape of csvload.yaml.
type ImportConfig struct {
	Connection         ConnectionConfig  `yaml:"connection"`
	DateColumns        map[string]string `yaml:"date_columns"`
	BatchSize          int               `yaml:"batch_size"`
	ChunkThreshold     int               `yaml:"chunk_threshold"`
	InterimCommitEvery int               `yaml:"interim_commit_every"`
	Delimiter          string            `yaml:"delimiter"`
	LogFile            string            `yaml:"log_file"`
	Timeout            string            `yaml:"timeout"`
}

const ConfigFileName = "csvload.yaml"

// Load reads csvload.yaml from dir.
func Load(dir string) (*ImportConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads an explicit config file path.
func LoadFile(path string) (*ImportConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ImportConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// TimeoutDuration parses Timeout. Empty means no limit.
func (c *ImportConfig) TimeoutDuration() (time.Duration, error) {
	return parseDuration("timeout", c.Timeout)
}

// ConnectTimeoutDuration parses connection.connect_timeout. A bare integer is
// read as seconds, like the libpq parameter of the same name.
func (c *ImportConfig) ConnectTimeoutDuration() (time.Duration, error) {
	return parseDuration("connection.connect_timeout", c.Connection.ConnectTimeout)
}

// DelimiterRune returns the configured single-character delimiter, or 0 when unset.
// "\t" and "tab" both select a tab.
func (c *ImportConfig) DelimiterRune() (rune, error) {
	return ParseDelimiter(c.Delimiter)
}

// ParseDelimiter converts a flag or config spelling to a rune.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		var secs int
		if _, scanErr := fmt.Sscanf(s, "%d", &secs); scanErr == nil && fmt.Sprint(secs) == s {
			return time.Duration(secs) * time.Second, nil
		}
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return d, nil
}
