// Package scanner discovers CSV input files in a directory.
//
// Discovery is non-recursive. A file qualifies when its extension is ".csv"
// in any letter case. Results are sorted by name so runs are reproducible.
package scanner
