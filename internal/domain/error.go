package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrTransientProofRef = errors.New("proof of payment reference is not durable")
	ErrNoActiveGrant     = errors.New("principal has no active plan grant")
	ErrOperationFailed   = errors.New("storage operation failed")
	ErrInvalidExecContext = errors.New("invalid execution context for query")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
