package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexBuilding indicates a query arrived while the index is
	// still being built. Callers should retry shortly.
	ErrIndexBuilding = errors.New("index is building")

	// ErrIndexFailed indicates the last index build failed and no
	// usable store is available.
	ErrIndexFailed = errors.New("index build failed")

	// ErrBuildInProgress indicates a build was requested while another
	// build is already running.
	ErrBuildInProgress = errors.New("index build already in progress")

	// ErrSourceUnavailable indicates the source-fetch collaborator
	// could not produce files. Fatal to the current build.
	ErrSourceUnavailable = errors.New("documentation source unavailable")
)
