package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/csvload/internal/config"
	"github.com/vvka-141/csvload/pkg/csvload"
)

// ConnFlags holds the connection parameters given on the command line.
// They follow PostgreSQL flag conventions (-h, -p, -U, -d).
//
// There is no password flag. Use $PGPASSWORD, ~/.pgpass or a connection string.
type ConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string

	AuthMethod     string
	AWSRegion      string
	GoogleInstance string
	AzureTenantID  string
	AzureClientID  string
}

// IsEmpty reports whether no server-addressing flag was given.
// Database is excluded because it may override the database of a connection string.
func (f *ConnFlags) IsEmpty() bool {
	return f.Host == "" && f.Port == 0 && f.Username == "" && f.SSLMode == ""
}

// EnvVars is a snapshot of the environment variables that affect connection resolution.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	CSVLOAD_CONNECTION_STRING string
	DATABASE_URL              string

	PGHOST     string
	PGPORT     string
	PGUSER     string
	PGPASSWORD string
	PGDATABASE string
	PGSSLMODE  string

	AWS_REGION          string
	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment snapshots the relevant environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		CSVLOAD_CONNECTION_STRING: os.Getenv("CSVLOAD_CONNECTION_STRING"),
		DATABASE_URL:              os.Getenv("DATABASE_URL"),
		PGHOST:                    os.Getenv("PGHOST"),
		PGPORT:                    os.Getenv("PGPORT"),
		PGUSER:                    os.Getenv("PGUSER"),
		PGPASSWORD:                os.Getenv("PGPASSWORD"),
		PGDATABASE:                os.Getenv("PGDATABASE"),
		PGSSLMODE:                 os.Getenv("PGSSLMODE"),
		AWS_REGION:                os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:           os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:           os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET:       os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnection builds the connection descriptor using this precedence:
//
//  1. --connection flag
//  2. $CSVLOAD_CONNECTION_STRING, then $DATABASE_URL (only when no granular flags)
//  3. granular flags, each falling back to PG* variables, then csvload.yaml, then defaults
//
// A --database flag overrides the database of any connection string.
// The auth method comes from the flag, then csvload.yaml; Azure environment
// credentials switch a standard config to Azure Entra ID.
func ResolveConnection(connString string, flags *ConnFlags, env *EnvVars, fileCfg *config.ImportConfig) (*csvload.ConnectionConfig, error) {
	if flags == nil {
		flags = &ConnFlags{}
	}
	if env == nil {
		env = &EnvVars{}
	}

	if connString != "" && !flags.IsEmpty() {
		return nil, fmt.Errorf("cannot specify both --connection and granular flags (-h, -p, -U, --sslmode): %w", csvload.ErrInvalidConfig)
	}

	var pc config.ConnectionConfig
	if fileCfg != nil {
		pc = fileCfg.Connection
	}

	if connString == "" && flags.IsEmpty() {
		if env.CSVLOAD_CONNECTION_STRING != "" {
			connString = env.CSVLOAD_CONNECTION_STRING
		} else {
			connString = env.DATABASE_URL
		}
	}

	var cfg *csvload.ConnectionConfig
	var err error
	if connString != "" {
		cfg, err = resolveFromConnectionString(connString, env)
	} else {
		cfg, err = resolveFromGranularParams(flags, env, pc)
	}
	if err != nil {
		return nil, err
	}

	if flags.Database != "" {
		cfg.Database = flags.Database
	}
	if cfg.Database == "" {
		cfg.Database = firstNonEmpty(env.PGDATABASE, pc.Database)
	}

	if cfg.ConnectTimeout == 0 && fileCfg != nil {
		timeout, err := fileCfg.ConnectTimeoutDuration()
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, csvload.ErrInvalidConfig)
		}
		cfg.ConnectTimeout = timeout
	}

	if err := applyAuth(cfg, flags, env, pc); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveFromConnectionString(connStr string, env *EnvVars) (*csvload.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %v: %w", err, csvload.ErrInvalidConfig)
	}
	if cfg.Password == "" {
		cfg.Password = env.PGPASSWORD
	}
	return cfg, nil
}

// resolveFromGranularParams applies flag > PG* env > csvload.yaml > default per field.
func resolveFromGranularParams(flags *ConnFlags, env *EnvVars, pc config.ConnectionConfig) (*csvload.ConnectionConfig, error) {
	cfg := &csvload.ConnectionConfig{
		AuthMethod:       csvload.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, env.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.PGPORT != "":
		port, err := strconv.Atoi(env.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", env.PGPORT, csvload.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	cfg.Username = firstNonEmpty(flags.Username, env.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = env.PGPASSWORD
	if cfg.Password == "" {
		cfg.Password = lookupPgpass(cfg.Host, cfg.Port, firstNonEmpty(flags.Database, env.PGDATABASE, pc.Database), cfg.Username)
	}
	cfg.Database = firstNonEmpty(flags.Database, env.PGDATABASE, pc.Database)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, env.PGSSLMODE, pc.SSLMode, "prefer")

	return cfg, nil
}

func applyAuth(cfg *csvload.ConnectionConfig, flags *ConnFlags, env *EnvVars, pc config.ConnectionConfig) error {
	method, err := csvload.ParseAuthMethod(firstNonEmpty(flags.AuthMethod, pc.AuthMethod))
	if err != nil {
		return err
	}

	cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, pc.AWSRegion, env.AWS_REGION)
	cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
	cfg.AzureTenantID = firstNonEmpty(flags.AzureTenantID, pc.AzureTenantID, env.AZURE_TENANT_ID)
	cfg.AzureClientID = firstNonEmpty(flags.AzureClientID, pc.AzureClientID, env.AZURE_CLIENT_ID)
	cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET

	if method == csvload.AuthMethodStandard && (cfg.AzureTenantID != "" || cfg.AzureClientID != "") {
		method = csvload.AuthMethodAzureEntraID
	}
	cfg.AuthMethod = method
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
