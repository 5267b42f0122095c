package render

import "errors"

// Sentinel errors for the transform registry.
var (
	ErrEmptyChannel      = errors.New("channel is empty")
	ErrAlreadyRegistered = errors.New("transform already registered")
	ErrNotRegistered     = errors.New("transform not registered")
	ErrNilTransform      = errors.New("transform is nil")
)
