// Package model defines the core data structures used throughout crimetrends.
//
// This package contains the following main types:
//   - Build: the state of one document build, passed through every pipeline step
//   - RawRow: a cleaned but not yet aggregated observation
//   - OffenceRecord: one aggregated (year, borough, offence) count
//   - PanelSummary: the cognostics and chart data for one (borough, offence) panel
//
// Models live in their own package so that the pipeline, chart, grid and
// report packages can share them without import cycles. They are designed to
// be serializable to JSON for the published site and the build summary.
package model
