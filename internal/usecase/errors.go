package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrNotYetOpen means the window for the action has not started.
	ErrNotYetOpen = errors.New("not yet open")
	// ErrClosed means the window for the action is permanently over.
	ErrClosed = errors.New("closed")
	// ErrPrecondition means a job ran before its trigger condition held. Retrying later is safe.
	ErrPrecondition = errors.New("precondition not met")
	ErrConflict     = errors.New("conflict")
)
