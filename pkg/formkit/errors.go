package formkit

import "errors"

// ErrUnknownConfigKind is returned when a raw config has neither "columns" nor "sections".
var ErrUnknownConfigKind = errors.New("config has neither columns nor sections")
