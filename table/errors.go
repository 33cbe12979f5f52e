package table

import "errors"

var (
	// ErrEmptyInput is returned when a dataset has no header row.
	ErrEmptyInput = errors.New("input has no header row")

	// ErrMissingColumns is returned when a selected column is not in the table.
	ErrMissingColumns = errors.New("columns not in table")

	// ErrInvalidDelimiter is returned for delimiters the CSV reader cannot use.
	ErrInvalidDelimiter = errors.New("invalid delimiter")
)
