// Package config provides configuration structures and utilities for postfilter.
// It defines where datasets are read from, how the HTTP server listens, where
// articles and the post store live, and how listings are printed.
package config
