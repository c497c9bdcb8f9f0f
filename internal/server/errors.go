package server

import "errors"

var (
	// ErrNoStore is returned by New when no post store is given.
	ErrNoStore = errors.New("server: missing post store")

	// ErrStaticDir is returned by New when the static directory is not a
	// readable directory.
	ErrStaticDir = errors.New("server: invalid static directory")
)
