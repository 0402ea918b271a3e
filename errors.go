package typemock

import "errors"

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .typemock.yaml is found.
	ErrConfigNotFound = errors.New("typemock: no .typemock.yaml found")

	// ErrReadSource is returned when a declaration file cannot be read.
	ErrReadSource = errors.New("typemock: cannot read source")

	// ErrParseSource is returned when a declaration file fails to parse.
	ErrParseSource = errors.New("typemock: cannot parse source")
)
