package util

import "errors"

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Input errors. Both abort a run.
	ErrInputNotFound = errors.New("input does not exist")
	ErrInputAccess   = errors.New("input is not accessible")

	// File errors
	ErrExpectedFile = errors.New("expected file, got directory")

	// Hash errors
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
	ErrBufferSize       = errors.New("read buffer size must be greater than zero")

	// Archive errors
	ErrNotArchive    = errors.New("path is not a supported archive")
	ErrArchiveFormat = errors.New("malformed archive")
)
