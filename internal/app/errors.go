package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUnauthenticated = errors.New("login required")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("session busy")
	ErrTooManySessions = errors.New("too many open sessions")
	ErrArchiveDisabled = errors.New("archive disabled")
)
