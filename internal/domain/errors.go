package domain

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrPrecondition = errors.New("precondition failed")
	ErrStorage      = errors.New("storage failure")
	ErrGeneration   = errors.New("generation failure")
	ErrDownload     = errors.New("download failure")
	ErrInFlight     = errors.New("generation already in flight")
)
