package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/csvload/internal/config"
	"github.com/vvka-141/csvload/pkg/csvload"
)

// isolatePgpass keeps a developer's ~/.pgpass out of the results.
func isolatePgpass(t *testing.T) {
	t.Setenv("PGPASSFILE", filepath.Join(t.TempDir(), "none"))
}

func TestConnFlags_IsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		flags ConnFlags
		want  bool
	}{
		{"empty", ConnFlags{}, true},
		{"host", ConnFlags{Host: "h"}, false},
		{"port", ConnFlags{Port: 5432}, false},
		{"user", ConnFlags{Username: "u"}, false},
		{"sslmode", ConnFlags{SSLMode: "require"}, false},
		{"database only", ConnFlags{Database: "d"}, true},
		{"auth only", ConnFlags{AuthMethod: "aws"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flags.IsEmpty())
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CSVLOAD_CONNECTION_STRING", "postgresql://a@b/c")
	t.Setenv("PGHOST", "envhost")
	t.Setenv("PGPORT", "6000")

	env := LoadFromEnvironment()
	assert.Equal(t, "postgresql://a@b/c", env.CSVLOAD_CONNECTION_STRING)
	assert.Equal(t, "envhost", env.PGHOST)
	assert.Equal(t, "6000", env.PGPORT)
}

func TestResolveConnection_Precedence(t *testing.T) {
	isolatePgpass(t)
	yaml := &config.ImportConfig{Connection: config.ConnectionConfig{
		Host: "yamlhost", Port: 7000, Username: "yamluser", Database: "yamldb", SSLMode: "verify-full",
	}}

	tests := []struct {
		name       string
		connString string
		flags      *ConnFlags
		env        *EnvVars
		fileCfg    *config.ImportConfig
		wantHost   string
		wantPort   int
		wantUser   string
		wantDB     string
	}{
		{
			name:       "connection flag beats env",
			connString: "postgresql://flaguser@flaghost:1111/flagdb",
			env:        &EnvVars{CSVLOAD_CONNECTION_STRING: "postgresql://e@envhost/envdb"},
			wantHost:   "flaghost", wantPort: 1111, wantUser: "flaguser", wantDB: "flagdb",
		},
		{
			name:     "CSVLOAD_CONNECTION_STRING beats DATABASE_URL",
			env:      &EnvVars{CSVLOAD_CONNECTION_STRING: "postgresql://a@one/db1", DATABASE_URL: "postgresql://b@two/db2"},
			wantHost: "one", wantPort: 5432, wantUser: "a", wantDB: "db1",
		},
		{
			name:     "DATABASE_URL used when alone",
			env:      &EnvVars{DATABASE_URL: "postgresql://b@two/db2"},
			wantHost: "two", wantPort: 5432, wantUser: "b", wantDB: "db2",
		},
		{
			name:     "granular flags ignore env connection strings",
			flags:    &ConnFlags{Host: "flaghost", Username: "u", Database: "d"},
			env:      &EnvVars{DATABASE_URL: "postgresql://b@two/db2"},
			wantHost: "flaghost", wantPort: 5432, wantUser: "u", wantDB: "d",
		},
		{
			name:     "PG env beats yaml",
			flags:    &ConnFlags{Username: "u"},
			env:      &EnvVars{PGHOST: "pghost", PGPORT: "6432", PGDATABASE: "pgdb"},
			fileCfg:  yaml,
			wantHost: "pghost", wantPort: 6432, wantUser: "u", wantDB: "pgdb",
		},
		{
			name:     "yaml beats defaults",
			fileCfg:  yaml,
			wantHost: "yamlhost", wantPort: 7000, wantUser: "yamluser", wantDB: "yamldb",
		},
		{
			name:       "database flag overrides connection string",
			connString: "postgresql://u@h/original",
			flags:      &ConnFlags{Database: "override"},
			wantHost:   "h", wantPort: 5432, wantUser: "u", wantDB: "override",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ResolveConnection(tt.connString, tt.flags, tt.env, tt.fileCfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, cfg.Host)
			assert.Equal(t, tt.wantPort, cfg.Port)
			assert.Equal(t, tt.wantUser, cfg.Username)
			assert.Equal(t, tt.wantDB, cfg.Database)
		})
	}
}

func TestResolveConnection_ConflictingFlags(t *testing.T) {
	_, err := ResolveConnection("postgresql://u@h/d", &ConnFlags{Host: "other"}, nil, nil)
	assert.True(t, errors.Is(err, csvload.ErrInvalidConfig))
}

func TestResolveConnection_InvalidPGPORT(t *testing.T) {
	isolatePgpass(t)
	_, err := ResolveConnection("", &ConnFlags{Username: "u"}, &EnvVars{PGPORT: "abc"}, nil)
	assert.True(t, errors.Is(err, csvload.ErrInvalidConfig))
}

func TestResolveConnection_PasswordSources(t *testing.T) {
	writePgpass(t, "h:5432:d:u:frompgpass\n")

	cfg, err := ResolveConnection("", &ConnFlags{Host: "h", Username: "u", Database: "d"}, &EnvVars{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "frompgpass", cfg.Password)

	cfg, err = ResolveConnection("", &ConnFlags{Host: "h", Username: "u", Database: "d"}, &EnvVars{PGPASSWORD: "fromenv"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.Password)

	cfg, err = ResolveConnection("postgresql://u@h/d", nil, &EnvVars{PGPASSWORD: "fromenv"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.Password)
}

func TestResolveConnection_ConnectTimeoutFromYAML(t *testing.T) {
	fileCfg := &config.ImportConfig{Connection: config.ConnectionConfig{ConnectTimeout: "45s"}}

	cfg, err := ResolveConnection("postgresql://u@h/d", nil, nil, fileCfg)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.ConnectTimeout)

	cfg, err = ResolveConnection("postgresql://u@h/d?connect_timeout=5", nil, nil, fileCfg)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
}

func TestResolveConnection_Auth(t *testing.T) {
	tests := []struct {
		name    string
		flags   *ConnFlags
		env     *EnvVars
		fileCfg *config.ImportConfig
		want    csvload.AuthMethod
		wantErr error
	}{
		{name: "default standard", want: csvload.AuthMethodStandard},
		{name: "flag", flags: &ConnFlags{AuthMethod: "aws"}, want: csvload.AuthMethodAWSIAM},
		{
			name:    "yaml",
			fileCfg: &config.ImportConfig{Connection: config.ConnectionConfig{AuthMethod: "google"}},
			want:    csvload.AuthMethodGoogleIAM,
		},
		{name: "azure env switches standard", env: &EnvVars{AZURE_CLIENT_ID: "cid"}, want: csvload.AuthMethodAzureEntraID},
		{name: "unknown", flags: &ConnFlags{AuthMethod: "kerberos"}, wantErr: csvload.ErrUnsupportedAuthMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ResolveConnection("postgresql://u@h/d", tt.flags, tt.env, tt.fileCfg)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.AuthMethod)
		})
	}
}

func TestResolveConnection_CloudParams(t *testing.T) {
	cfg, err := ResolveConnection("postgresql://u@h/d",
		&ConnFlags{AuthMethod: "aws", GoogleInstance: "p:r:i"},
		&EnvVars{AWS_REGION: "eu-west-1", AZURE_CLIENT_SECRET: "secret"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.AWSRegion)
	assert.Equal(t, "p:r:i", cfg.GoogleInstance)
	assert.Equal(t, "secret", cfg.AzureClientSecret)
}
