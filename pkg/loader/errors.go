package loader

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions or formats the loader cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrNotObject is returned when a document decodes to something other than an object.
	ErrNotObject = errors.New("config document is not an object")
)
