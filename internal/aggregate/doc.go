// Package aggregate sums cleaned offence rows by (year, borough, offence).
//
// Rows are loaded into a private in-memory SQLite database (via
// modernc.org/sqlite, which needs no cgo) and summed with a single
// GROUP BY query. Nothing is written to disk; the database lives only for
// the duration of one Aggregate call.
package aggregate
