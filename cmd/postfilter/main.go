// Package main provides the entry point for the postfilter CLI.
//
// postfilter indexes markdown articles into a SQLite post store, serves the
// post datasets and listing pages over HTTP, and filters posts by tag,
// category or free text from the command line.
//
// Usage:
//
//	postfilter index --content ./content
//	postfilter serve --addr :8080
//	postfilter filter --tag go
//
// See --help for all available options.
package main

func main() {
	Execute()
}
