// Package common defines sentinel errors shared by the repositories,
// services and outer surfaces of MindStitch. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors.
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyTitle    = errors.New("title must not be empty")
)
