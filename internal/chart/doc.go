// Package chart renders the static charts of the article.
//
// SmallMultiples builds one gonum/plot panel per borough with a line per
// offence type and tiles them, together with a legend panel, into a single
// image. Thumbnail renders the per-panel preview images of the interactive
// grid with go-chart.
//
// Styling is carried by an explicit Theme value; nothing in this package
// reads or modifies global plotting state.
package chart
