package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrAlreadyClaimed    = errors.New("job already claimed")
	ErrInvalidTransition = errors.New("invalid job state transition")
	ErrJobNotFinished    = errors.New("job not finished")
)
