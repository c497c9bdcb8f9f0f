package filter

import "errors"

// ErrInvalidState is returned when a Filter operation is called from a state
// that does not allow it (e.g., Render before Fetch).
var ErrInvalidState = errors.New("invalid filter state")
