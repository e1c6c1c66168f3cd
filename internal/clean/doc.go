// Package clean turns the raw crime table into observations ready for
// aggregation.
//
// Cleaning normalizes column names, extracts a calendar year from the
// free-form year field, drops rows without a usable count and removes the
// aggregate label and non-borough rollups that the source publishes next
// to real boroughs.
package clean
