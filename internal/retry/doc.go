// Package retry retries operations that fail with transient database errors,
// waiting between attempts with exponential backoff.
//
// csvload uses it when opening the per-file connection pool: a PostgreSQL
// server that is restarting or briefly refusing connections should not fail
// the file outright.
//
//	exec := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), retry.NewExponentialBackoff(3))
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
package retry
