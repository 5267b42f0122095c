package history

import "errors"

// Sentinel errors for store operations.
var (
	ErrNotFound   = errors.New("session record not found")
	ErrLoadFailed = errors.New("load failed")
	ErrSaveFailed = errors.New("save failed")
)
