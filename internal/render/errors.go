package render

import "errors"

var (
	// ErrDuplicateHandler indicates an attempt to register a tag twice.
	ErrDuplicateHandler = errors.New("render: duplicate handler")
	// ErrInvalidHandler occurs when a registration has an empty tag or a nil handler.
	ErrInvalidHandler = errors.New("render: invalid handler")
)
