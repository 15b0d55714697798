package apperrors

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrSessionEnded        = errors.New("session already ended")
	ErrNoActiveSession     = errors.New("no active session")
)
