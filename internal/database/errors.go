package database

import "errors"

var (
	// ErrNotFound is returned when no article has the requested slug.
	ErrNotFound = errors.New("article not found")

	// ErrDatabaseNotFound is returned by Open when the database file does not
	// exist and creation was not requested.
	ErrDatabaseNotFound = errors.New("database not found")
)
