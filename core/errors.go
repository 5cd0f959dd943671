package core

import "errors"

// Sentinel errors returned by the pipeline stages.
var (
	// ErrInputNotFound indicates the source document does not exist or is
	// not a regular file.
	ErrInputNotFound = errors.New("input file not found")

	// ErrConverterNotFound indicates the external document converter is
	// not installed or not executable.
	ErrConverterNotFound = errors.New("document converter not found")

	// ErrInvalidLimits indicates min/max line limits that cannot be honoured.
	ErrInvalidLimits = errors.New("invalid line limits")
)
