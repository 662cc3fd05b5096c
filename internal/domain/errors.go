package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when caller-supplied data cannot be used.
	ErrInvalidInput = errors.New("invalid input")
)
