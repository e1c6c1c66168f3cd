// Package config provides the configuration of a crimetrends build: where the
// dataset comes from, how it is cleaned, and how the chart, the grid and the
// article are laid out.
//
// Values are resolved in three layers. NewConfig supplies defaults, an
// optional .crimetrends.yaml file is applied over them, and command-line
// flags that were set explicitly are applied last.
package config
