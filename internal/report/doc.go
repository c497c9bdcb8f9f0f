// Package report writes filter results in different output formats.
//
// This package contains writers for:
//   - HTMLWriter: the container fragment, as the server would render it
//   - JSONWriter: structured output for tool integration
//   - MarkdownWriter: a markdown table of the selected posts
//   - TextWriter: styled terminal output
//
// Writers implement the Writer interface and can be composed with
// MultiWriter. NewWriter selects one by format name.
package report
