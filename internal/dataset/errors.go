package dataset

import "errors"

var (
	// ErrUnreadable is returned when the source file is missing or cannot be read.
	ErrUnreadable = errors.New("file is missing or unreadable")

	// ErrDecode is returned when no candidate encoding could decode the file.
	ErrDecode = errors.New("no candidate encoding could decode the file")

	// ErrMissingColumn is returned when a required column is absent after normalization.
	ErrMissingColumn = errors.New("required column missing")

	// ErrBadValue is returned when a year cell is neither blank nor a number.
	ErrBadValue = errors.New("value is not a number")

	// ErrUnknownLocation is returned when a Name is not present in a dataset.
	ErrUnknownLocation = errors.New("unknown location")

	// ErrUnknownYear is returned when a year has no column in a dataset.
	ErrUnknownYear = errors.New("unknown year")
)
