package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotFound              = errors.New("resource not found")
	ErrAlreadyCompleted      = errors.New("fight already completed")
	ErrMissingFighterData    = errors.New("missing fighter data")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
