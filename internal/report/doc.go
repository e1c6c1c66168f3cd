// Package report writes the results of a build.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable build summary for terminal display
//   - JSONWriter: structured JSON summary for tool integration
//   - MarkdownWriter: build summary as Markdown
//   - ArticleWriter: the published narrative article that embeds the static
//     chart and the interactive grid
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
