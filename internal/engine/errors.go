package engine

import "errors"

// Failure categories for per-photo operations. Wrapped with photo context
// via fmt.Errorf so callers can classify with errors.Is.
var (
	// ErrImageDecode marks photos whose bytes could not be read or decoded.
	ErrImageDecode = errors.New("image decode failure")
	// ErrCompute marks embedding model failures, including degenerate vectors.
	ErrCompute = errors.New("embedding compute failure")
	// ErrStorageRead marks store read failures. Reads that fail are treated
	// as missing records, so this mostly shows up in logs.
	ErrStorageRead = errors.New("storage read failure")
	// ErrStorageWrite marks store write failures.
	ErrStorageWrite = errors.New("storage write failure")
)
