// Package infer decides the storage type of each dataset column and coerces
// the column's cells to match.
//
// Rules are applied in priority order: configured date columns, integers,
// decimals, detected day-first dates, then bounded or unbounded text.
// Per-value parse failures never surface as errors; the value becomes null.
package infer
