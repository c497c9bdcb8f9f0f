package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidWorkers is returned when the number of index workers is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrUnknownFormat is returned for an output format other than
	// text, html, json or markdown.
	ErrUnknownFormat = errors.New("unknown output format: use text, html, json or markdown")

	// ErrNoSource is returned when neither a base URL nor the local
	// database is configured as the dataset source.
	ErrNoSource = errors.New("no dataset source: set --source or use --db")

	// ErrNoDBDir is returned when the local database is selected but no
	// database directory is configured.
	ErrNoDBDir = errors.New("no database directory configured")
)
