// Package dataset holds a CSV file fully in memory as named, typed columns.
//
// Raw cells arrive as Text or Null. Inference later replaces them with
// Integer, Decimal or Date values in place.
package dataset
