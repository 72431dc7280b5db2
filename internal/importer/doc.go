// Package importer drives a directory import: for every CSV file it reads the
// data, infers a table, creates it and loads the rows.
//
// Files are processed one at a time, each over its own database session. A
// failed file is reported and the run moves on; an interrupt stops the run
// after the in-flight batch has been rolled back.
package importer
