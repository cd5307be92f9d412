package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks user input that failed domain checks.
	ErrValidation = errors.New("validation failed")
)
