// Package pipeline runs the stages of a document build in sequence.
//
// A build fetches the dataset, cleans and aggregates it, renders the static
// small-multiples chart, summarizes each (borough, offence) panel, publishes
// the interactive grid and finally writes the article that embeds both.
// Each stage is a Step that reads what earlier steps left on the
// model.Build and fills in its own part.
//
// The pipeline stops at the first failing step and records the error on
// the build. Context cancellation is checked between steps.
package pipeline
