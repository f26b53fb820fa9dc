package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Queue errors
	ErrLockHeld        = errors.New("run lock already held")
	ErrUnsupportedKind = errors.New("unsupported content kind")

	// Classifier errors
	ErrMissingCredentials = errors.New("classifier credentials missing")
	ErrBadAIResponse      = errors.New("classifier returned malformed response")
)
