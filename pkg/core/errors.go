package core

import "errors"

// Common errors.
var (
	ErrReadOnly    = errors.New("repository is in read-only mode")
	ErrNotFound    = errors.New("page not found")
	ErrEmptyID     = errors.New("page ID cannot be empty")
	ErrAbsoluteID  = errors.New("page ID must be relative")
	ErrTraversalID = errors.New("page ID must not contain '..'")
)
