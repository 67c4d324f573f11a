package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound      = errors.New("prediction not found")
	ErrFetch         = errors.New("fetch prediction failed")
	ErrSave          = errors.New("save prediction failed")
	ErrClosed        = errors.New("store closed")
	ErrUnknownDriver = errors.New("unknown store driver")
)
