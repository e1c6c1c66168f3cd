// Package main provides the entry point for the crimetrends CLI.
//
// crimetrends downloads the London recorded crime dataset and publishes a
// document about it: a static small-multiples chart of every borough, an
// interactive grid with one panel per borough and offence type, and a
// Markdown article that embeds both.
//
// Usage:
//
//	crimetrends build
//	crimetrends build --source https://example.org/crime.csv -o site
//	crimetrends verify site/trelliscope
//
// See --help for all available options.
package main

// main is the entry point for crimetrends.
func main() {
	Execute()
}
