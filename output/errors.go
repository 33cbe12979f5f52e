package output

import "errors"

var (
	// ErrEmptyDirectory is returned when no output directory is given.
	ErrEmptyDirectory = errors.New("output directory cannot be empty")
)
