package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/csvload/internal/retry"
	"github.com/vvka-141/csvload/pkg/csvload"
)

// Pool sizing. Files are loaded one at a time over a single connection, so
// each file's pool holds exactly one.
const (
	DefaultMaxConns        = 1
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger csvload.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("server notice: %s", notice.Message)
	}
}

func newRetryExecutor(logger csvload.Logger) *retry.Executor {
	strategy := retry.NewExponentialBackoff(csvload.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(csvload.DefaultRetryInitialDelay),
		retry.WithMaxDelay(csvload.DefaultRetryMaxDelay),
	)
	return retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Warn("connection attempt %d failed, retrying in %v: %v", attempt+1, delay.Round(time.Millisecond), err)
		})
}

// StandardConnector connects with username/password authentication and
// retries transient failures.
type StandardConnector struct {
	config        *csvload.ConnectionConfig
	logger        csvload.Logger
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a StandardConnector. Retries use the
// csvload defaults (DefaultRetryMaxAttempts, exponential backoff).
func NewStandardConnector(config *csvload.ConnectionConfig, logger csvload.Logger) *StandardConnector {
	return &StandardConnector{
		config:        config,
		logger:        logger,
		retryExecutor: newRetryExecutor(logger),
	}
}

// Connect establishes a connection pool, retrying transient failures.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return connectWithRetry(ctx, c.retryExecutor, c.config, c.logger, func(context.Context) (string, error) {
		return BuildConnectionString(c.config), nil
	})
}

// connectWithRetry opens and pings a pool built from the DSN that dsn returns.
// dsn is called on every attempt so token-based connectors can refresh credentials.
func connectWithRetry(ctx context.Context, exec *retry.Executor, cfg *csvload.ConnectionConfig, logger csvload.Logger, dsn func(context.Context) (string, error)) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	err := exec.Execute(ctx, func(ctx context.Context) error {
		connStr, err := dsn(ctx)
		if err != nil {
			return err
		}

		poolConfig, err := pgxpool.ParseConfig(connStr)
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}
		configurePool(poolConfig, logger)

		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, cfg.Host, cfg.Port, cfg.Database)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return wrapConnectionError(err, cfg.Host, cfg.Port, cfg.Database)
		}

		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// NewConnector creates the Connector matching cfg.AuthMethod.
func NewConnector(cfg *csvload.ConnectionConfig, logger csvload.Logger) (csvload.Connector, error) {
	switch cfg.AuthMethod {
	case csvload.AuthMethodStandard:
		return NewStandardConnector(cfg, logger), nil
	case csvload.AuthMethodAWSIAM:
		return newAWSConnector(cfg, logger)
	case csvload.AuthMethodGoogleIAM:
		return newGoogleConnector(cfg, logger)
	case csvload.AuthMethodAzureEntraID:
		return newAzureConnector(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", cfg.AuthMethod, csvload.ErrUnsupportedAuthMethod)
	}
}

// NewConnectorFactory binds a logger to NewConnector.
func NewConnectorFactory(logger csvload.Logger) csvload.ConnectorFactory {
	return func(cfg *csvload.ConnectionConfig) (csvload.Connector, error) {
		return NewConnector(cfg, logger)
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
// The result always wraps csvload.ErrConnectionFailed.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var hint string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		hint = fmt.Sprintf("connection refused to %s (is PostgreSQL running? check: pg_isready -h %s -p %d)", addr, host, port)
	case strings.Contains(errStr, "no such host"):
		hint = fmt.Sprintf("cannot resolve host %q", host)
	case strings.Contains(errStr, "password authentication failed"):
		hint = fmt.Sprintf("password authentication failed for database %q (check $PGPASSWORD or ~/.pgpass)", database)
	case strings.Contains(errStr, "does not exist"):
		hint = fmt.Sprintf("database %q does not exist (create it with: createdb %s)", database, database)
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		hint = fmt.Sprintf("connection timed out to %s", addr)
	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		hint = "SSL/TLS negotiation failed (check --sslmode)"
	case strings.Contains(errStr, "too many connections"):
		hint = fmt.Sprintf("too many connections to database %q", database)
	default:
		hint = fmt.Sprintf("failed to connect to %s", addr)
	}

	return fmt.Errorf("%w: %s: %w", csvload.ErrConnectionFailed, hint, err)
}
