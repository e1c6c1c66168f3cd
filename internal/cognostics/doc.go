// Package cognostics computes the per-panel summary statistics used to sort
// and filter the interactive grid.
//
// The trend cognostic is the ordinary least squares slope of count on year,
// rounded to two decimals. Quartiles follow the linear interpolation rule
// used by R's default quantile (type 7), so an IQR computed here matches the
// one a reader would get from the published numbers in R or a spreadsheet.
package cognostics
